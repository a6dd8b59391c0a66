// Package inference holds the incremental accumulation core: per-binding
// type contributions keyed by origin, folded into one combined type with
// a change signal that drives fixed-point iteration in the analyzer.
package inference

import (
	"github.com/funvibe/funtype/internal/typesystem"
)

// OriginID identifies one contribution origin (an assignment site, a
// control-flow branch, an analysis rule). Callers assign them; they must
// be stable across passes and unique within one Accumulator. Neither is
// enforced here.
type OriginID int

// Contribution is one origin's current belief about a binding's type.
type Contribution struct {
	Origin OriginID
	Type   typesystem.Type
}

// Accumulator merges type contributions from multiple origins into one
// combined type. Contributions keep insertion order; updating an existing
// origin replaces its entry in place. The combined type is recomputed
// eagerly on every mutation, so reads never observe a stale value.
//
// There is no removal operation. An origin that no longer applies is
// retracted by submitting typesystem.Never, or the whole accumulator is
// discarded and rebuilt by its owner.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	contributions []Contribution
	combined      typesystem.Type
}

// NewAccumulator returns an empty accumulator whose combined type is the
// unknown type.
func NewAccumulator() *Accumulator {
	return &Accumulator{combined: typesystem.Unknown}
}

// Combined returns the current combined type. It is the unknown type
// exactly when no contribution has been submitted.
func (a *Accumulator) Combined() typesystem.Type {
	return a.combined
}

// Contributions returns the current contributions in insertion order.
// The returned slice is shared with the accumulator; callers must not
// modify it.
func (a *Accumulator) Contributions() []Contribution {
	return a.contributions
}

// Submit records origin's current belief and reports whether the combined
// type changed as a result.
//
// Resubmitting a type structurally equal to the origin's previous one is
// a no-op returning false, without recomputation — the short-circuit is
// keyed on the individual contribution, not on the eventual combined
// type. The change signal is idempotent: the same (type, origin) pair
// submitted twice in a row always reports false the second time.
func (a *Accumulator) Submit(t typesystem.Type, origin OriginID) bool {
	found := false
	for i := range a.contributions {
		if a.contributions[i].Origin != origin {
			continue
		}
		if typesystem.Equal(a.contributions[i].Type, t) {
			return false
		}
		a.contributions[i].Type = t
		found = true
		break
	}
	if !found {
		a.contributions = append(a.contributions, Contribution{Origin: origin, Type: t})
	}

	types := make([]typesystem.Type, len(a.contributions))
	for i, c := range a.contributions {
		types[i] = c.Type
	}
	combined := typesystem.Combine(types)

	if typesystem.Equal(combined, a.combined) {
		return false
	}
	a.combined = combined
	return true
}
