package inference

import (
	"testing"

	"github.com/funvibe/funtype/internal/typesystem"
)

var (
	intType  = typesystem.TCon{Name: "Int"}
	strType  = typesystem.TCon{Name: "Str"}
	boolType = typesystem.TCon{Name: "Bool"}
)

func TestEmptyAccumulator(t *testing.T) {
	acc := NewAccumulator()

	if !typesystem.IsUnknown(acc.Combined()) {
		t.Errorf("Combined() = %s, want unknown", acc.Combined())
	}
	if len(acc.Contributions()) != 0 {
		t.Errorf("Contributions() has %d entries, want 0", len(acc.Contributions()))
	}
}

func TestFirstContribution(t *testing.T) {
	acc := NewAccumulator()

	if !acc.Submit(intType, 1) {
		t.Errorf("first Submit returned false, want true")
	}
	if !typesystem.Equal(acc.Combined(), intType) {
		t.Errorf("Combined() = %s, want Int", acc.Combined())
	}
}

func TestIdempotentSubmit(t *testing.T) {
	acc := NewAccumulator()
	acc.Submit(intType, 1)

	if acc.Submit(intType, 1) {
		t.Errorf("repeated Submit returned true, want false")
	}
	if !typesystem.Equal(acc.Combined(), intType) {
		t.Errorf("Combined() = %s, want Int", acc.Combined())
	}
	if len(acc.Contributions()) != 1 {
		t.Errorf("Contributions() has %d entries, want 1", len(acc.Contributions()))
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	acc := NewAccumulator()
	acc.Submit(intType, 1)

	if !acc.Submit(strType, 1) {
		t.Errorf("updating Submit returned false, want true")
	}
	if got := len(acc.Contributions()); got != 1 {
		t.Fatalf("Contributions() has %d entries, want 1 (replacement, not addition)", got)
	}
	if !typesystem.Equal(acc.Combined(), strType) {
		t.Errorf("Combined() = %s, want Str", acc.Combined())
	}
}

func TestMultipleOriginsAccumulate(t *testing.T) {
	acc := NewAccumulator()

	if !acc.Submit(intType, 1) {
		t.Errorf("Submit(Int, 1) = false, want true")
	}
	if !acc.Submit(strType, 2) {
		t.Errorf("Submit(Str, 2) = false, want true")
	}

	contribs := acc.Contributions()
	if len(contribs) != 2 {
		t.Fatalf("Contributions() has %d entries, want 2", len(contribs))
	}
	if contribs[0].Origin != 1 || !typesystem.Equal(contribs[0].Type, intType) {
		t.Errorf("contributions[0] = (%d, %s), want (1, Int)", contribs[0].Origin, contribs[0].Type)
	}
	if contribs[1].Origin != 2 || !typesystem.Equal(contribs[1].Type, strType) {
		t.Errorf("contributions[1] = (%d, %s), want (2, Str)", contribs[1].Origin, contribs[1].Type)
	}

	want := typesystem.Combine([]typesystem.Type{intType, strType})
	if !typesystem.Equal(acc.Combined(), want) {
		t.Errorf("Combined() = %s, want %s", acc.Combined(), want)
	}
}

func TestOrderPreservedOnReplace(t *testing.T) {
	acc := NewAccumulator()
	acc.Submit(intType, 1)
	acc.Submit(strType, 2)

	acc.Submit(boolType, 1)

	contribs := acc.Contributions()
	if len(contribs) != 2 {
		t.Fatalf("Contributions() has %d entries, want 2", len(contribs))
	}
	if contribs[0].Origin != 1 || !typesystem.Equal(contribs[0].Type, boolType) {
		t.Errorf("contributions[0] = (%d, %s), want (1, Bool) at original position", contribs[0].Origin, contribs[0].Type)
	}
	if contribs[1].Origin != 2 {
		t.Errorf("contributions[1].Origin = %d, want 2", contribs[1].Origin)
	}

	want := typesystem.TUnion{Types: []typesystem.Type{boolType, strType}}
	if !typesystem.Equal(acc.Combined(), want) {
		t.Errorf("Combined() = %s, want %s", acc.Combined(), want)
	}
}

// A contribution update can leave the combined type structurally
// unchanged (the replaced member was a duplicate of a union member).
// Submit must still apply the update and report false.
func TestNoSpuriousChangeOnEqualCombination(t *testing.T) {
	union := typesystem.TUnion{Types: []typesystem.Type{intType, strType}}
	acc := NewAccumulator()
	acc.Submit(union, 1)
	acc.Submit(strType, 2)

	if !typesystem.Equal(acc.Combined(), union) {
		t.Fatalf("Combined() = %s, want %s", acc.Combined(), union)
	}

	// Replace origin 2's Str with Int: combine flattens and dedupes to
	// the same Int | Str either way.
	if acc.Submit(intType, 2) {
		t.Errorf("Submit returned true though combined type is unchanged")
	}
	contribs := acc.Contributions()
	if !typesystem.Equal(contribs[1].Type, intType) {
		t.Errorf("contributions[1].Type = %s, want Int (update applied despite unchanged combined)", contribs[1].Type)
	}
	if !typesystem.Equal(acc.Combined(), union) {
		t.Errorf("Combined() = %s, want %s", acc.Combined(), union)
	}

	// The short-circuit is keyed on the individual entry, so resubmitting
	// the updated type is still a quiet no-op.
	if acc.Submit(intType, 2) {
		t.Errorf("resubmit returned true, want false")
	}
}

func TestNeverRetractsContribution(t *testing.T) {
	acc := NewAccumulator()
	acc.Submit(intType, 1)
	acc.Submit(strType, 2)

	if !acc.Submit(typesystem.Never, 1) {
		t.Errorf("retracting Submit returned false, want true")
	}
	if !typesystem.Equal(acc.Combined(), strType) {
		t.Errorf("Combined() = %s, want Str", acc.Combined())
	}
	// The entry stays; only its type is the empty type now.
	if len(acc.Contributions()) != 2 {
		t.Errorf("Contributions() has %d entries, want 2", len(acc.Contributions()))
	}
}

func TestSubmitScenario(t *testing.T) {
	acc := NewAccumulator()

	steps := []struct {
		typ          typesystem.Type
		origin       OriginID
		wantChanged  bool
		wantCombined typesystem.Type
	}{
		{intType, 10, true, intType},
		{strType, 20, true, typesystem.TUnion{Types: []typesystem.Type{intType, strType}}},
		{intType, 10, false, typesystem.TUnion{Types: []typesystem.Type{intType, strType}}},
		{boolType, 10, true, typesystem.TUnion{Types: []typesystem.Type{boolType, strType}}},
	}

	for i, step := range steps {
		changed := acc.Submit(step.typ, step.origin)
		if changed != step.wantChanged {
			t.Errorf("step %d: Submit(%s, %d) = %v, want %v", i, step.typ, step.origin, changed, step.wantChanged)
		}
		if !typesystem.Equal(acc.Combined(), step.wantCombined) {
			t.Errorf("step %d: Combined() = %s, want %s", i, acc.Combined(), step.wantCombined)
		}
	}
}
