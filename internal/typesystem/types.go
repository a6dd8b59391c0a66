package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Kind() Kind
}

// TUnknown is the distinguished unresolved/unknown type.
// It is the combined type of a binding with no contributions, and it
// absorbs every other type under Combine.
type TUnknown struct{}

func (t TUnknown) String() string { return "unknown" }

func (t TUnknown) Kind() Kind { return Star }

// TNever is the empty type. It has no inhabitants and is absorbed by
// Combine. Callers that need to retract a contribution submit TNever
// in its place; there is no removal operation.
type TNever struct{}

func (t TNever) String() string { return "never" }

func (t TNever) Kind() Kind { return Star }

// TCon represents a type constant/constructor (e.g. Int, Bool, List).
type TCon struct {
	Name string

	// KindVal is the declared kind; nil means Star. Constructors meant
	// to be applied carry an arrow kind, e.g. List is * -> *.
	KindVal Kind
}

func (t TCon) String() string { return t.Name }

func (t TCon) Kind() Kind {
	if t.KindVal != nil {
		return t.KindVal
	}
	return Star
}

// TApp represents a type application (e.g. List<Int>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Kind() Kind {
	k := t.Constructor.Kind()
	for range t.Args {
		arrow, ok := k.(KArrow)
		if !ok {
			// Over-applied constructor; treat as a proper type.
			return Star
		}
		k = arrow.Right
	}
	return k
}

// TTuple represents a tuple type (e.g. (Int, Bool)).
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	elems := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		elems[i] = el.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

func (t TTuple) Kind() Kind { return Star }

// TRecord represents a record type (e.g. { x: Int, y: Bool }).
type TRecord struct {
	Fields map[string]Type
}

func (t TRecord) String() string {
	// Sort keys for deterministic output
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %s", k, t.Fields[k].String()))
	}
	if len(fields) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

func (t TRecord) Kind() Kind { return Star }

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Kind() Kind { return Star }

// TUnion represents a union type (e.g. Int | Str | Nil).
// Members are flattened, deduplicated, and kept in first-occurrence
// order. A well-formed union has at least 2 members; Combine never
// produces one with fewer.
type TUnion struct {
	Types []Type
}

func (t TUnion) String() string {
	parts := make([]string, len(t.Types))
	for i, typ := range t.Types {
		parts[i] = typ.String()
	}
	return strings.Join(parts, " | ")
}

func (t TUnion) Kind() Kind { return Star }

// Unknown and Never are the canonical instances of the two marker types.
var (
	Unknown Type = TUnknown{}
	Never   Type = TNever{}
)
