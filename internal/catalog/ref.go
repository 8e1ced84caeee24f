package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"efwetl/internal/errs"
)

// RefKind tags how a ColumnRef locates its column.
type RefKind uint8

const (
	ByName RefKind = iota + 1
	ByLetter
	ByPosition
)

func (k RefKind) String() string {
	switch k {
	case ByName:
		return "name"
	case ByLetter:
		return "letter"
	case ByPosition:
		return "position"
	default:
		return "invalid"
	}
}

// ColumnRef locates one column of the merged wide table. Exactly one of the
// fields matching Kind is meaningful.
type ColumnRef struct {
	Kind     RefKind
	Name     string
	Letter   byte
	Position int
}

// Name references a column by header name.
func Name(s string) ColumnRef { return ColumnRef{Kind: ByName, Name: s} }

// Letter references a column by spreadsheet letter, 'A' being position 0.
func Letter(c byte) ColumnRef { return ColumnRef{Kind: ByLetter, Letter: c} }

// Position references a column by zero-based index.
func Position(i int) ColumnRef { return ColumnRef{Kind: ByPosition, Position: i} }

// ParseRef classifies an untyped string reference: a single ASCII letter is
// a letter reference, anything else a name.
func ParseRef(s string) ColumnRef {
	if len(s) == 1 && isASCIILetter(s[0]) {
		return Letter(s[0])
	}
	return Name(s)
}

func isASCIILetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func (r ColumnRef) String() string {
	switch r.Kind {
	case ByName:
		return strconv.Quote(r.Name)
	case ByLetter:
		return "letter " + string(r.Letter)
	case ByPosition:
		return "position " + strconv.Itoa(r.Position)
	default:
		return "invalid reference"
	}
}

// Resolve maps ref onto an index of headers. It is a pure function of its
// inputs.
//
// Name references match exactly first, then ignoring surrounding whitespace.
// Letter references accept 'A' through 'Z' only; lower-case letters and
// multi-letter spreadsheet addresses are rejected rather than guessed.
// Failures are *errs.ConfigError values without an indicator code; callers
// holding an Entry attach it.
func Resolve(ref ColumnRef, headers []string) (int, error) {
	switch ref.Kind {
	case ByPosition:
		if ref.Position < 0 || ref.Position >= len(headers) {
			return -1, &errs.ConfigError{Msg: fmt.Sprintf("column position %d out of range (table has %d columns)", ref.Position, len(headers))}
		}
		return ref.Position, nil

	case ByLetter:
		if ref.Letter < 'A' || ref.Letter > 'Z' {
			return -1, &errs.ConfigError{Msg: fmt.Sprintf("column letter %q must be an upper-case letter A-Z", ref.Letter)}
		}
		i := int(ref.Letter - 'A')
		if i >= len(headers) {
			return -1, &errs.ConfigError{Msg: fmt.Sprintf("column letter %c addresses position %d but table has %d columns", ref.Letter, i, len(headers))}
		}
		return i, nil

	case ByName:
		for i, h := range headers {
			if h == ref.Name {
				return i, nil
			}
		}
		want := strings.TrimSpace(ref.Name)
		for i, h := range headers {
			if strings.TrimSpace(h) == want {
				return i, nil
			}
		}
		if looksLikeAddress(want) {
			return -1, &errs.ConfigError{Msg: fmt.Sprintf("column %q not found; multi-letter column addresses are not supported", ref.Name)}
		}
		return -1, &errs.ConfigError{Msg: fmt.Sprintf("column %q not found", ref.Name)}

	default:
		return -1, &errs.ConfigError{Msg: "column reference has no kind"}
	}
}

// looksLikeAddress reports spreadsheet-style addresses such as "AA" or "BC".
func looksLikeAddress(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// explicitRef is the object form of a reference, used to force a kind (for
// example a one-letter header name).
type explicitRef struct {
	Name     *string `json:"name,omitempty" yaml:"name,omitempty"`
	Letter   *string `json:"letter,omitempty" yaml:"letter,omitempty"`
	Position *int    `json:"position,omitempty" yaml:"position,omitempty"`
}

func (e explicitRef) ref() (ColumnRef, error) {
	n := 0
	var out ColumnRef
	if e.Name != nil {
		n++
		out = Name(*e.Name)
	}
	if e.Letter != nil {
		n++
		if len(*e.Letter) != 1 {
			return ColumnRef{}, fmt.Errorf("letter reference %q must be a single character", *e.Letter)
		}
		out = Letter((*e.Letter)[0])
	}
	if e.Position != nil {
		n++
		out = Position(*e.Position)
	}
	if n != 1 {
		return ColumnRef{}, fmt.Errorf("column reference object needs exactly one of name, letter, position")
	}
	return out, nil
}

// UnmarshalJSON accepts a number (position), a string (letter or name by
// ParseRef), or an explicit object.
func (r *ColumnRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		return fmt.Errorf("column reference must not be null")
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ParseRef(s)
		return nil
	case b[0] == '{':
		var e explicitRef
		if err := json.Unmarshal(b, &e); err != nil {
			return err
		}
		ref, err := e.ref()
		if err != nil {
			return err
		}
		*r = ref
		return nil
	default:
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("column position: %w", err)
		}
		*r = Position(n)
		return nil
	}
}

// MarshalJSON writes the explicit object form so round trips never change
// the kind.
func (r ColumnRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ByName:
		return json.Marshal(explicitRef{Name: &r.Name})
	case ByLetter:
		s := string(r.Letter)
		return json.Marshal(explicitRef{Letter: &s})
	case ByPosition:
		return json.Marshal(explicitRef{Position: &r.Position})
	default:
		return nil, fmt.Errorf("column reference has no kind")
	}
}

// UnmarshalYAML mirrors UnmarshalJSON: !!int scalars are positions, other
// scalars go through ParseRef, mappings use the explicit form.
func (r *ColumnRef) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!int" {
			var i int
			if err := n.Decode(&i); err != nil {
				return err
			}
			*r = Position(i)
			return nil
		}
		*r = ParseRef(n.Value)
		return nil
	case yaml.MappingNode:
		var e explicitRef
		if err := n.Decode(&e); err != nil {
			return err
		}
		ref, err := e.ref()
		if err != nil {
			return err
		}
		*r = ref
		return nil
	default:
		return fmt.Errorf("line %d: column reference must be a scalar or mapping", n.Line)
	}
}
