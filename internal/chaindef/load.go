package chaindef

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadFromFile loads a chain definition from a JSON file
func LoadFromFile(filepath string) (*Definition, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", filepath)
	}
	return def, nil
}

// Parse decodes and validates a JSON chain definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, errors.Errorf("point %q must be x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, errors.Wrapf(err, "point %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, errors.Wrapf(err, "point %q", s)
	}
	return Point{X: x, Y: y}, nil
}

// ParsePoints parses a ';' separated list of points, e.g. "0,0;10,0;20,0".
func ParsePoints(s string) ([]Point, error) {
	var pts []Point
	for _, field := range strings.Split(s, ";") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		p, err := ParsePoint(field)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}
