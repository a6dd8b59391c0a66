package typesystem

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseType parses a type expression into a Type.
//
// Supported forms:
//
//	Int                      constants
//	List<Int>                applications
//	(Int, Str)               tuples
//	(Int) -> Bool            functions
//	{ x: Int, y: Bool }      records
//	Int | Str                unions
//	unknown, never           markers
//
// A union after '->' belongs to the return type: (Int) -> Bool | Str
// is a function returning Bool | Str.
func ParseType(s string) (Type, error) {
	toks, err := lexType(s)
	if err != nil {
		return nil, err
	}
	p := &typeParser{toks: toks}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected %q in type %q", p.peek(), s)
	}
	return t, nil
}

type typeParser struct {
	toks []string
	pos  int
}

func (p *typeParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *typeParser) peek() string {
	if p.atEnd() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *typeParser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("expected %q, got %q", tok, p.peek())
	}
	p.pos++
	return nil
}

// parseUnion handles T | T | ...
func (p *typeParser) parseUnion() (Type, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	members := []Type{first}
	for p.peek() == "|" {
		p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	if len(members) == 1 {
		return first, nil
	}
	return Combine(members), nil
}

func (p *typeParser) parseTerm() (Type, error) {
	switch tok := p.peek(); {
	case tok == "(":
		return p.parseParen()
	case tok == "{":
		return p.parseRecord()
	case tok == "":
		return nil, fmt.Errorf("unexpected end of type expression")
	case isIdent(tok):
		return p.parseIdent()
	default:
		return nil, fmt.Errorf("unexpected %q in type expression", tok)
	}
}

func (p *typeParser) parseIdent() (Type, error) {
	name := p.next()
	switch name {
	case "unknown":
		return Unknown, nil
	case "never":
		return Never, nil
	}
	if p.peek() != "<" {
		return TCon{Name: name}, nil
	}
	p.next()
	args := []Type{}
	for {
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek() != "," {
			break
		}
		p.next()
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	return TApp{Constructor: TCon{Name: name}, Args: args}, nil
}

// parseParen disambiguates groups, tuples and function types:
// (T) is a group, (T, U) a tuple, and either followed by -> a function.
func (p *typeParser) parseParen() (Type, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	elems := []Type{}
	if p.peek() != ")" {
		for {
			t, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
			if p.peek() != "," {
				break
			}
			p.next()
		}
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}

	if p.peek() == "->" {
		p.next()
		ret, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return TFunc{Params: elems, ReturnType: ret}, nil
	}

	switch len(elems) {
	case 0:
		return nil, fmt.Errorf("empty parentheses in type expression")
	case 1:
		return elems[0], nil
	}
	return TTuple{Elements: elems}, nil
}

func (p *typeParser) parseRecord() (Type, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	fields := map[string]Type{}
	for p.peek() != "}" {
		name := p.next()
		if !isIdent(name) {
			return nil, fmt.Errorf("expected field name, got %q", name)
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("duplicate record field %q", name)
		}
		fields[name] = t
		if p.peek() == "," {
			p.next()
		}
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return TRecord{Fields: fields}, nil
}

func isIdent(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if i > 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func lexType(s string) ([]string, error) {
	toks := []string{}
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case strings.ContainsRune("(){}<>,:|", rune(c)):
			toks = append(toks, string(c))
			i++
		case c == '-':
			if i+1 < len(s) && s[i+1] == '>' {
				toks = append(toks, "->")
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected '-' at offset %d in %q", i, s)
			}
		case unicode.IsLetter(rune(c)) || c == '_':
			j := i
			for j < len(s) && (unicode.IsLetter(rune(s[j])) || unicode.IsDigit(rune(s[j])) || s[j] == '_') {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d in %q", c, i, s)
		}
	}
	return toks, nil
}
