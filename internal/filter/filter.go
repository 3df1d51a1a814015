// Package filter holds the read-path transformations applied to a single
// blueprint before it is returned to a client. Filters are pure: they never
// modify their input or the stored data.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arsw/blueprints/internal/blueprint"
)

// ErrUnknownFilter is returned by New for an unrecognised filter name.
var ErrUnknownFilter = errors.New("unknown filter")

// Names accepted by New.
const (
	NameIdentity   = "identity"
	NameRedundancy = "redundancy"
	NameSubsample  = "subsample"
)

// Filter transforms a blueprint on the read path.
type Filter interface {
	Apply(bp blueprint.Blueprint) blueprint.Blueprint
	Name() string
}

// New returns the filter registered under name.
func New(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameIdentity:
		return Identity{}, nil
	case NameRedundancy:
		return Redundancy{}, nil
	case NameSubsample:
		return Subsample{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}

// Identity returns blueprints unchanged.
type Identity struct{}

func (Identity) Apply(bp blueprint.Blueprint) blueprint.Blueprint { return bp }

func (Identity) Name() string { return NameIdentity }

// Redundancy drops points equal to their predecessor.
type Redundancy struct{}

func (Redundancy) Apply(bp blueprint.Blueprint) blueprint.Blueprint {
	if len(bp.Points) == 0 {
		return bp
	}
	out := make([]blueprint.Point, 0, len(bp.Points))
	out = append(out, bp.Points[0])
	for _, p := range bp.Points[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return blueprint.Blueprint{Author: bp.Author, Name: bp.Name, Points: out}
}

func (Redundancy) Name() string { return NameRedundancy }

// Subsample keeps the points at even indices. A single point is kept as is.
type Subsample struct{}

func (Subsample) Apply(bp blueprint.Blueprint) blueprint.Blueprint {
	out := make([]blueprint.Point, 0, (len(bp.Points)+1)/2)
	for i := 0; i < len(bp.Points); i += 2 {
		out = append(out, bp.Points[i])
	}
	return blueprint.Blueprint{Author: bp.Author, Name: bp.Name, Points: out}
}

func (Subsample) Name() string { return NameSubsample }
