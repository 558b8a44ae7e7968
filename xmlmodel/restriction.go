package xmlmodel

import (
	"fmt"
	"strconv"
	"strings"
)

// WhiteSpace is the XSD whiteSpace facet.
type WhiteSpace int

const (
	WhiteSpacePreserve WhiteSpace = 1
	WhiteSpaceReplace  WhiteSpace = 2
	WhiteSpaceCollapse WhiteSpace = 3
)

// EnumValue is one entry of an enumeration facet: a wire value with an
// optional human display form.
type EnumValue struct {
	Value   string
	Display string
}

// Restriction is a named XSD facet set, shared (never owned) by the
// elements that reference it — multiple elements in a WSDL-generated
// schema commonly point at the same named simple type.
type Restriction struct {
	Name string

	Length    *int
	MinLength *int
	MaxLength *int

	TotalDigits    *int
	FractionDigits *int

	MinInclusive *string
	MaxInclusive *string
	MinExclusive *string
	MaxExclusive *string

	Pattern string

	WhiteSpace WhiteSpace

	Enumeration []EnumValue
}

// Find looks up an enumeration entry case-insensitively by value.
func (r *Restriction) Find(value string) (EnumValue, bool) {
	for _, e := range r.Enumeration {
		if strings.EqualFold(e.Value, value) {
			return e, true
		}
	}
	return EnumValue{}, false
}

// CheckDataType performs the static, restriction-independent datatype
// check for dt against value.
func CheckDataType(dt DataType, value string) string {
	switch dt {
	case TypeInteger:
		v := value
		if len(v) > 0 && (v[0] == '+' || v[0] == '-') {
			v = v[1:]
		}
		if v == "" {
			return "not an integer: " + value
		}
		for i := 0; i < len(v); i++ {
			if v[i] < '0' || v[i] > '9' {
				return "not an integer: " + value
			}
		}
		return ""
	case TypeBoolean:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0":
			return ""
		default:
			return "not a boolean: " + value
		}
	case TypeDouble:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "not a double: " + value
		}
		return ""
	case TypeBase64:
		// lenient: hex-or-space characters, deliberately not a strict
		// base64-alphabet check (see DESIGN NOTES: intentionally lenient).
		for i := 0; i < len(value); i++ {
			c := value[i]
			isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
			if !isHex && c != ' ' {
				return "not base64/hex: " + value
			}
		}
		return ""
	case TypeDateTime:
		if len(value) < len("YYYY-MM-DDThh:mm:ss") {
			return "not a dateTime: " + value
		}
		if value[4] != '-' || value[7] != '-' || value[10] != 'T' || value[13] != ':' || value[16] != ':' {
			return "not a dateTime: " + value
		}
		return ""
	default:
		return ""
	}
}

// Check runs every applicable facet on value (treated as a string
// length in code points for length facets, and as the raw textual
// representation for bounds) and returns "" on success or a
// human-readable diagnostic.
func (r *Restriction) Check(value string) string {
	if r == nil {
		return ""
	}
	runeLen := len([]rune(value))

	if r.Length != nil && runeLen != *r.Length {
		return fmt.Sprintf("length must be %d, got %d", *r.Length, runeLen)
	}
	if r.MinLength != nil && runeLen < *r.MinLength {
		return fmt.Sprintf("length must be >= %d, got %d", *r.MinLength, runeLen)
	}
	if r.MaxLength != nil && runeLen > *r.MaxLength {
		return fmt.Sprintf("length must be <= %d, got %d", *r.MaxLength, runeLen)
	}

	if r.TotalDigits != nil || r.FractionDigits != nil {
		if msg := r.checkDigits(value); msg != "" {
			return msg
		}
	}

	if r.MinInclusive != nil && value < *r.MinInclusive {
		return fmt.Sprintf("must be >= %s", *r.MinInclusive)
	}
	if r.MaxInclusive != nil && value > *r.MaxInclusive {
		return fmt.Sprintf("must be <= %s", *r.MaxInclusive)
	}
	if r.MinExclusive != nil && value <= *r.MinExclusive {
		return fmt.Sprintf("must be > %s", *r.MinExclusive)
	}
	if r.MaxExclusive != nil && value >= *r.MaxExclusive {
		return fmt.Sprintf("must be < %s", *r.MaxExclusive)
	}

	if r.Pattern != "" {
		if !matchSimplePattern(r.Pattern, value) {
			return fmt.Sprintf("does not match pattern %q", r.Pattern)
		}
	}

	if len(r.Enumeration) > 0 {
		if _, ok := r.Find(value); !ok {
			return fmt.Sprintf("%q is not one of the enumerated values", value)
		}
	}

	return ""
}

func (r *Restriction) checkDigits(value string) string {
	intPart, fracPart := value, ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		intPart, fracPart = value[:idx], value[idx+1:]
	}
	intPart = strings.TrimLeft(intPart, "+-")
	total := len(intPart) + len(fracPart)
	if r.TotalDigits != nil && total > *r.TotalDigits {
		return fmt.Sprintf("totalDigits must be <= %d, got %d", *r.TotalDigits, total)
	}
	if r.FractionDigits != nil && len(fracPart) > *r.FractionDigits {
		return fmt.Sprintf("fractionDigits must be <= %d, got %d", *r.FractionDigits, len(fracPart))
	}
	return ""
}

// matchSimplePattern supports the XSD-regex-like subset this fabric
// actually emits/consumes: literal text with '*' (any run) and '?'
// (single char) wildcards, which is what the WSDL generator's own
// restriction patterns use.
func matchSimplePattern(pattern, value string) bool {
	return globMatch(pattern, value)
}

func globMatch(pattern, value string) bool {
	if pattern == "" {
		return value == ""
	}
	switch pattern[0] {
	case '*':
		for i := 0; i <= len(value); i++ {
			if globMatch(pattern[1:], value[i:]) {
				return true
			}
		}
		return false
	case '?':
		if value == "" {
			return false
		}
		return globMatch(pattern[1:], value[1:])
	default:
		if value == "" || value[0] != pattern[0] {
			return false
		}
		return globMatch(pattern[1:], value[1:])
	}
}

// ApplyWhiteSpace implements the whiteSpace facet transform.
func ApplyWhiteSpace(ws WhiteSpace, value string) string {
	switch ws {
	case WhiteSpaceReplace:
		return strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, value)
	case WhiteSpaceCollapse:
		replaced := ApplyWhiteSpace(WhiteSpaceReplace, value)
		return strings.Join(strings.Fields(replaced), " ")
	default:
		return value
	}
}

// Restrictions is the shared table a WSDLCache owns; elements hold a
// pointer into it, never a copy.
type Restrictions struct {
	byName map[string]*Restriction
}

// NewRestrictions returns an empty table.
func NewRestrictions() *Restrictions {
	return &Restrictions{byName: make(map[string]*Restriction)}
}

// Register adds or replaces a named restriction.
func (t *Restrictions) Register(r *Restriction) {
	t.byName[r.Name] = r
}

// Lookup returns the restriction named name, or nil.
func (t *Restrictions) Lookup(name string) *Restriction {
	return t.byName[name]
}
