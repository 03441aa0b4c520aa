package resource

import (
	"fmt"

	"github.com/on-the-ground/react_ive_go/shared/stamp"
)

// Phase is the lifecycle position of a resource run.
type Phase int

const (
	// Idle means no run has been requested yet.
	Idle Phase = iota
	// Pending means the current generation is still producing.
	Pending
	// Succeeded means the current generation settled with a value.
	Succeeded
	// Failed means the current generation settled with an error.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether the phase is a settled outcome.
func (p Phase) Terminal() bool {
	return p == Succeeded || p == Failed
}

// Status is an immutable snapshot of a resource at one point in its
// lifecycle. Generation ties the snapshot to the run that produced it;
// two statuses with equal Generation and Phase describe the same event.
//
// Value is meaningful only when Phase == Succeeded, and Err only when
// Phase == Failed. Span brackets the moment the snapshot was taken.
type Status[T any] struct {
	Phase      Phase
	Generation uint64
	Value      T
	Err        error
	Span       stamp.TimeSpan
}

// Settled reports whether the snapshot describes a finished run.
func (s Status[T]) Settled() bool {
	return s.Phase.Terminal()
}

func (s Status[T]) String() string {
	switch s.Phase {
	case Succeeded:
		return fmt.Sprintf("status{%s gen=%d value=%v}", s.Phase, s.Generation, s.Value)
	case Failed:
		return fmt.Sprintf("status{%s gen=%d err=%v}", s.Phase, s.Generation, s.Err)
	default:
		return fmt.Sprintf("status{%s gen=%d}", s.Phase, s.Generation)
	}
}
