package meshmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/meshmap/config"
	"github.com/hupe1980/meshmap/model"
	"github.com/hupe1980/meshmap/search"
)

var (
	// ErrInvalidSettings is returned for search settings out of range.
	ErrInvalidSettings = errors.New("invalid search settings")

	// ErrInvalidOrigin is returned for an origin mesh that cannot be searched in the requested mode.
	ErrInvalidOrigin = errors.New("invalid origin mesh")

	// ErrNoInterfaceObjects is returned when no rank holds an origin object.
	ErrNoInterfaceObjects = errors.New("no interface objects")

	// ErrUnsupportedMode is returned for an unknown mapping mode.
	ErrUnsupportedMode = errors.New("unsupported mapping mode")
)

// ErrInvalidParameter indicates a single setting out of range.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidParameter struct {
	Name  string
	Value float64
	cause error
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter %s: %g", e.Name, e.Value)
}

func (e *ErrInvalidParameter) Unwrap() error { return e.cause }

// Is reports ErrInvalidSettings as a match.
func (e *ErrInvalidParameter) Is(target error) bool { return target == ErrInvalidSettings }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Settings normalization.
	var ip *config.ErrInvalidParameter
	if errors.As(err, &ip) {
		return &ErrInvalidParameter{Name: ip.Name, Value: ip.Value, cause: err}
	}
	if errors.Is(err, config.ErrInvalidSettings) {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	// Origin mesh unification.
	if errors.Is(err, search.ErrAmbiguousGeometry) || errors.Is(err, search.ErrMissingGeometry) || errors.Is(err, search.ErrNilOrigin) {
		return fmt.Errorf("%w: %w", ErrInvalidOrigin, err)
	}
	if errors.Is(err, search.ErrNoInterfaceObjects) {
		return fmt.Errorf("%w: %w", ErrNoInterfaceObjects, err)
	}
	if errors.Is(err, model.ErrUnsupportedConstruction) {
		return fmt.Errorf("%w: %w", ErrUnsupportedMode, err)
	}

	return err
}
