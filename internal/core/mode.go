package core

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Mode selects which category taxonomy is active for a ledger.
type Mode string

const (
	ModeUnset        Mode = ""
	ModeStudent      Mode = "student"
	ModeProfessional Mode = "professional"
)

// Fixed, ordered category lists. Order matters: it breaks ties in the
// category breakdown.
var categoryRegistry = map[Mode][]string{
	ModeStudent: {
		"Tuition & Fees",
		"Books & Supplies",
		"Food & Dining",
		"Transportation",
		"Accommodation",
		"Entertainment",
		"Personal Care",
		"Other",
	},
	ModeProfessional: {
		"Housing & Rent",
		"Utilities",
		"Groceries",
		"Transportation",
		"Healthcare",
		"Insurance",
		"Entertainment",
		"Dining Out",
		"Shopping",
		"Savings & Investment",
		"Other",
	},
}

// Modes lists the selectable modes in menu order.
func Modes() []Mode {
	return []Mode{ModeStudent, ModeProfessional}
}

// ParseMode maps user input to a selectable mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// IsValid reports whether m is one of the selectable modes.
func (m Mode) IsValid() bool {
	_, ok := categoryRegistry[m]
	return ok
}

func (m Mode) IsSet() bool { return m != ModeUnset }

func (m Mode) String() string {
	if m == ModeUnset {
		return "not selected"
	}
	return string(m)
}

// Title returns a display label such as "Student".
func (m Mode) Title() string {
	if !m.IsValid() {
		return m.String()
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// CategoriesFor returns a copy of the ordered category list for mode.
func CategoriesFor(mode Mode) ([]string, error) {
	if mode == ModeUnset {
		return nil, ErrNoModeSelected
	}
	cats, ok := categoryRegistry[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}
	return slices.Clone(cats), nil
}

// HasCategory reports whether name belongs to the mode's taxonomy.
func (m Mode) HasCategory(name string) bool {
	return slices.Contains(categoryRegistry[m], name)
}

// MarshalJSON writes an unset mode as null.
func (m Mode) MarshalJSON() ([]byte, error) {
	if m == ModeUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts null, an empty string or a selectable mode.
func (m *Mode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = ModeUnset
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	if s == "" {
		*m = ModeUnset
		return nil
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
