package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"INFO":   zapcore.InfoLevel,
		" warn ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	} {
		level, err := ParseLevel(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, expected)
	}

	_, err := ParseLevel("chatty")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `invalid log level "chatty"`)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("solve started", "iterations", 3)
	logger.Warn("not converged")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("solve started").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 1)

	entry := logs.All()[0]
	test.That(t, entry.ContextMap()["iterations"], test.ShouldEqual, int64(3))
}

func TestLoggerLevels(t *testing.T) {
	test.That(t, NewLogger("fabrik").Desugar().Core().Enabled(zapcore.DebugLevel), test.ShouldBeFalse)
	test.That(t, NewDebugLogger("fabrik").Desugar().Core().Enabled(zapcore.DebugLevel), test.ShouldBeTrue)
	test.That(t, NewLoggerAtLevel("fabrik", zapcore.ErrorLevel).Desugar().Core().Enabled(zapcore.WarnLevel), test.ShouldBeFalse)
	test.That(t, NewBlankLogger("fabrik").Desugar().Core().Enabled(zapcore.ErrorLevel), test.ShouldBeFalse)
}
