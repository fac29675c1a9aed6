// Package config holds the search settings and their validation.
//
// All settings are optional. Unset values are derived from the origin mesh
// when a search starts, which is why the settings keep pointers instead of
// filling in defaults eagerly.
//
// Settings decode from TOML; unknown keys are rejected:
//
//	search_radius                 = 0.1
//	max_search_radius             = 2.0
//	search_radius_increase_factor = 2.0
//	max_num_search_iterations     = 6
//	echo_level                    = 1
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Epsilon is the smallest accepted radius and increase factor.
const Epsilon = 2.220446049250313e-16

// DefaultIncreaseFactor is the radius growth factor used when none is configured.
const DefaultIncreaseFactor = 2.0

// DefaultMinIterations is the lower bound of the derived iteration budget.
const DefaultMinIterations = 3

// ErrInvalidSettings is returned for malformed or out-of-range settings.
var ErrInvalidSettings = errors.New("invalid search settings")

// ErrInvalidParameter indicates a setting outside its admissible range.
//
// It matches ErrInvalidSettings with errors.Is.
type ErrInvalidParameter struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s (%g): %s", e.Name, e.Value, e.Reason)
}

func (e *ErrInvalidParameter) Unwrap() error { return ErrInvalidSettings }

// SearchSettings configures the adaptive radius search.
type SearchSettings struct {
	// SearchRadius is the initial search radius.
	// Default: largest bounding-box extent of the origin objects divided by their count.
	SearchRadius *float64 `toml:"search_radius,omitempty"`

	// MaxSearchRadius bounds the radius growth.
	// Default: 1.2 times the largest edge length of the origin mesh.
	MaxSearchRadius *float64 `toml:"max_search_radius,omitempty"`

	// SearchRadiusIncreaseFactor multiplies the radius after each unsuccessful iteration.
	// Default: 2.0.
	SearchRadiusIncreaseFactor *float64 `toml:"search_radius_increase_factor,omitempty"`

	// MaxNumSearchIterations bounds the number of search iterations.
	// Default: enough iterations to grow from the initial to the maximum radius, at least 3.
	MaxNumSearchIterations *int `toml:"max_num_search_iterations,omitempty"`

	// EchoLevel controls diagnostic verbosity only.
	EchoLevel int `toml:"echo_level"`
}

// Float returns a pointer to v, for populating optional settings.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for populating optional settings.
func Int(v int) *int { return &v }

// Validate checks every configured value.
func (s SearchSettings) Validate() error {
	if err := checkPositive("search_radius", s.SearchRadius, "search radius must be larger than 0.0"); err != nil {
		return err
	}
	if err := checkPositive("max_search_radius", s.MaxSearchRadius, "maximum radius must be larger than 0.0"); err != nil {
		return err
	}
	if err := checkPositive("search_radius_increase_factor", s.SearchRadiusIncreaseFactor, "search radius increase factor must be larger than 0.0"); err != nil {
		return err
	}

	if s.MaxNumSearchIterations != nil && *s.MaxNumSearchIterations < 1 {
		return &ErrInvalidParameter{
			Name:   "max_num_search_iterations",
			Value:  float64(*s.MaxNumSearchIterations),
			Reason: "number of search iterations must be larger than 0",
		}
	}

	return nil
}

func checkPositive(name string, v *float64, reason string) error {
	if v == nil {
		return nil
	}
	if math.IsInf(*v, 0) {
		return &ErrInvalidParameter{Name: name, Value: *v, Reason: "value must be finite"}
	}
	if math.IsNaN(*v) || *v < Epsilon {
		return &ErrInvalidParameter{Name: name, Value: *v, Reason: reason}
	}
	return nil
}

// IncreaseFactor returns the configured increase factor or the default.
func (s SearchSettings) IncreaseFactor() float64 {
	if s.SearchRadiusIncreaseFactor != nil {
		return *s.SearchRadiusIncreaseFactor
	}
	return DefaultIncreaseFactor
}

// Decode reads TOML settings from r and validates them.
func Decode(r io.Reader) (SearchSettings, error) {
	var s SearchSettings

	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&s); err != nil {
		return SearchSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if err := s.Validate(); err != nil {
		return SearchSettings{}, err
	}

	return s, nil
}

// LoadFile reads TOML settings from path.
func LoadFile(path string) (SearchSettings, error) {
	f, err := os.Open(path)
	if err != nil {
		return SearchSettings{}, fmt.Errorf("failed to open settings %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes the settings as TOML.
func (s SearchSettings) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}
