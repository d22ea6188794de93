package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/spatial"
)

// CellSize is the YAML form of spatial.CellSize: the string "auto" or a
// positive number.
type CellSize struct {
	spatial.CellSize
}

// AutoCellSize returns the "auto" setting.
func AutoCellSize() CellSize {
	return CellSize{spatial.Auto()}
}

// ParseCellSize parses "auto" or a positive number.
func ParseCellSize(s string) (CellSize, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") || s == "" {
		return AutoCellSize(), nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return CellSize{}, fmt.Errorf("cell size %q: want \"auto\" or a number", s)
	}
	if !(v > 0) {
		return CellSize{}, fmt.Errorf("cell size %q: must be positive", s)
	}
	return CellSize{spatial.Fixed(float32(v))}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CellSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cell_size must be a scalar", value.Line)
	}
	parsed, err := ParseCellSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c CellSize) MarshalYAML() (any, error) {
	if c.IsAuto() {
		return "auto", nil
	}
	// Round-trip through the shortest float32 text so 0.1 stays 0.1.
	return strconv.ParseFloat(strconv.FormatFloat(float64(c.Value()), 'g', -1, 32), 64)
}
