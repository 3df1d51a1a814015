package blueprint

import (
	"fmt"
	"strings"
)

// Point is an immutable 2D integer coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key is the identity of a blueprint within a store.
type Key struct {
	Author string
	Name   string
}

func (k Key) String() string {
	return k.Author + "/" + k.Name
}

// Blueprint is a named, authored polyline. Points are ordered and never empty.
type Blueprint struct {
	Author string  `json:"author"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// New builds a Blueprint from raw input. Author and name are trimmed; the
// points slice is copied so later changes by the caller are not observed.
func New(author, name string, points []Point) (*Blueprint, error) {
	author = strings.TrimSpace(author)
	name = strings.TrimSpace(name)

	if author == "" {
		return nil, fmt.Errorf("%w: author must not be empty", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: blueprint must have at least one point", ErrInvalidInput)
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	return &Blueprint{Author: author, Name: name, Points: pts}, nil
}

// Key returns the blueprint identity.
func (b *Blueprint) Key() Key {
	return Key{Author: b.Author, Name: b.Name}
}

// Clone returns a deep copy.
func (b *Blueprint) Clone() *Blueprint {
	pts := make([]Point, len(b.Points))
	copy(pts, b.Points)
	return &Blueprint{Author: b.Author, Name: b.Name, Points: pts}
}

// Equal reports whether both blueprints share the same identity. Point
// contents are ignored, matching the store's uniqueness constraint.
func (b *Blueprint) Equal(other *Blueprint) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Key() == other.Key()
}

// SamePoints reports whether both blueprints hold the same point sequence.
func (b *Blueprint) SamePoints(other *Blueprint) bool {
	if len(b.Points) != len(other.Points) {
		return false
	}
	for i := range b.Points {
		if b.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}

// ValidateKey trims author and name and rejects blank values.
func ValidateKey(author, name string) (Key, error) {
	k := Key{Author: strings.TrimSpace(author), Name: strings.TrimSpace(name)}
	if k.Author == "" {
		return Key{}, fmt.Errorf("%w: author must not be empty", ErrInvalidInput)
	}
	if k.Name == "" {
		return Key{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	return k, nil
}
