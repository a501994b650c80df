// Package conf binds the handler configuration: scopes that carry the fun_radius parameter, their merge from broad
// to narrow, and the file that declares servers and locations.
package conf

import (
	"github.com/cockroachdb/errors"
)

const (
	// DefaultRadius applies when no scope sets a radius.
	DefaultRadius = 100
	// MinRadius is the smallest valid radius.
	MinRadius = 1
	// MaxRadius is the largest valid radius.
	MaxRadius = 1000
)

// ErrRadiusOutOfRange is returned when a merged radius falls outside [MinRadius, MaxRadius].
var ErrRadiusOutOfRange = errors.New("fun_radius out of range")

// Scope is one layer of configuration. A nil field is unset.
type Scope struct {
	Radius *int `yaml:"fun_radius"`
}

// CreateScope returns a scope with every field unset.
func CreateScope() Scope { return Scope{} }

// RadiusScope returns a scope with the radius set.
func RadiusScope(r int) Scope { return Scope{Radius: &r} }

// MergeScope resolves child against parent: a child value wins, an unset child takes the parent's value and if
// both are unset the default applies. Neither input is modified.
func MergeScope(parent, child Scope) Scope {
	switch {
	case child.Radius != nil:
		return RadiusScope(*child.Radius)
	case parent.Radius != nil:
		return RadiusScope(*parent.Radius)
	default:
		return RadiusScope(DefaultRadius)
	}
}

// Validate checks a merged scope.
func Validate(s Scope) error {
	r := s.RadiusValue()
	if r < MinRadius {
		return errors.Wrapf(ErrRadiusOutOfRange, "radius must be equal or more than %d, got %d", MinRadius, r)
	}

	if r > MaxRadius {
		return errors.Wrapf(ErrRadiusOutOfRange, "radius must be equal or less than %d, got %d", MaxRadius, r)
	}

	return nil
}

// RadiusValue returns the radius, or the default when unset.
func (s Scope) RadiusValue() int {
	if s.Radius == nil {
		return DefaultRadius
	}

	return *s.Radius
}
