package guard

import (
	"errors"
	"time"
)

// Kind classifies an interaction.
type Kind string

const (
	KindPointerDown Kind = "pointer_down"
	KindFocus       Kind = "focus"
)

// Interaction is one ambient event: something happened somewhere. Target
// identifies where in whatever vocabulary the host uses; the guard only
// ever hands it to Region.Contains.
type Interaction struct {
	Kind   Kind
	Target any
	At     time.Time
}

// Region decides whether a target belongs to the protected area.
type Region interface {
	Contains(target any) bool
}

// RegionFunc adapts a plain predicate into a Region.
type RegionFunc func(target any) bool

func (f RegionFunc) Contains(target any) bool { return f(target) }

// Source is where interactions come from. Subscribing can fail, e.g. on a
// source that has already shut down; that error surfaces from
// Guard.Activate, since a guard without events cannot function.
type Source interface {
	Interactions() (<-chan Interaction, func(), error)
}

var (
	// ErrSourceClosed reports a subscription attempt on a closed source.
	ErrSourceClosed = errors.New("guard: interaction source closed")
	// ErrGuardClosed reports an Activate on a closed guard.
	ErrGuardClosed = errors.New("guard: closed")
)
