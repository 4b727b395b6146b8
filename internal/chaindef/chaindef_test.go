package chaindef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

const twoLinkArm = `{
  "name": "two-link arm",
  "tolerance": 0.01,
  "max_iterations": 500,
  "try_to_reach": true,
  "joints": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 20, "y": 0}],
  "targets": [{"x": 20, "y": 0}, {"x": 60, "y": 60, "try_to_reach": false}]
}`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.json")
	test.That(t, os.WriteFile(path, []byte(twoLinkArm), 0o644), test.ShouldBeNil)

	def, err := LoadFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, def.Name, test.ShouldEqual, "two-link arm")
	test.That(t, def.Tolerance, test.ShouldEqual, 0.01)
	test.That(t, def.JointPoints(), test.ShouldResemble, []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}})
	test.That(t, def.Targets, test.ShouldHaveLength, 2)
	test.That(t, def.ShouldTryToReach(0), test.ShouldBeTrue)
	test.That(t, def.ShouldTryToReach(1), test.ShouldBeFalse)
	test.That(t, def.Targets[1].R2(), test.ShouldResemble, r2.Point{X: 60, Y: 60})

	chain, err := def.NewChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Reach(), test.ShouldEqual, 20.)
	test.That(t, chain.MaxIterations(), test.ShouldEqual, 500)

	chain, err = def.NewChain(fabrik.WithMaxIterations(7))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.MaxIterations(), test.ShouldEqual, 7)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"joints": [`))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Parse([]byte(`{
	  "tolerance": -1,
	  "max_iterations": -2,
	  "joints": [{"x": 1, "y": 1}, {"x": 1, "y": 1}, {"x": 3, "y": 1}]
	}`))
	errs := multierr.Errors(err)
	test.That(t, errs, test.ShouldHaveLength, 3)
	test.That(t, errs[0].Error(), test.ShouldEqual, "tolerance must be positive")
	test.That(t, errs[1].Error(), test.ShouldEqual, "max_iterations must not be negative")
	test.That(t, errs[2].Error(), test.ShouldEqual, "joints 1 and 2 coincide at (1, 1)")
	for _, e := range errs {
		_, ok := e.(*ValidationError)
		test.That(t, ok, test.ShouldBeTrue)
	}

	_, err = Parse([]byte(`{"tolerance": 1, "joints": [{"x": 0, "y": 0}]}`))
	test.That(t, err, test.ShouldBeError, &ValidationError{"chain must have at least 2 joints"})
}

func TestParsePoints(t *testing.T) {
	p, err := ParsePoint(" 60, -6.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, Point{60, -6.5})

	pts, err := ParsePoints("0,0;10,0; 20,0;")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pts, test.ShouldResemble, []Point{{0, 0}, {10, 0}, {20, 0}})

	_, err = ParsePoint("1,2,3")
	test.That(t, err, test.ShouldBeError, `point "1,2,3" must be x,y`)
	_, err = ParsePoints("0,0;x,1")
	test.That(t, err.Error(), test.ShouldContainSubstring, `point "x,1"`)
}
