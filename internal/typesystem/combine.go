package typesystem

// Combine folds an ordered sequence of types into one summary type.
//
// For a single type it is the identity projection. For longer
// sequences it builds a union: nested unions are flattened, duplicates
// are eliminated via Equal, and members keep first-occurrence order.
// The result is deterministic and order-sensitive — callers that need
// bit-compatible results must preserve their sequence order.
//
// TNever members are absorbed; a sequence of only never types yields
// Never. TUnknown absorbs everything: one unknown member makes the
// whole combination unknown.
//
// An empty sequence yields Unknown. Callers with zero contributions
// should not rely on this and use Unknown directly.
func Combine(types []Type) Type {
	if len(types) == 0 {
		return Unknown
	}
	if len(types) == 1 {
		return types[0]
	}

	// Flatten nested unions
	flat := make([]Type, 0, len(types))
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		if IsUnknown(t) {
			return Unknown
		}
		if IsNever(t) {
			continue
		}
		seen := false
		for _, u := range unique {
			if Equal(t, u) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, t)
		}
	}

	switch len(unique) {
	case 0:
		return Never
	case 1:
		return unique[0]
	}
	return TUnion{Types: unique}
}
