// Package trait models the named capabilities a unit can carry (Flying,
// Armored, Command, ...). Traits are identified by a closed ID set rather
// than free-form strings, optionally parameterized by an integer value, and
// individually toggleable: an inactive trait has no effect anywhere in the
// engine.
package trait

import "fmt"

// ID identifies a trait. The zero value (Unknown) is intentionally invalid.
type ID int

const (
	Unknown ID = iota // zero value; intentionally invalid
	Flying            // airborne; only anti-air weapons may target it
	Hover             // low-altitude flyer; targetable by any weapon
	Heavy             // heavy armor chassis; soft attacks barely scratch it
	Infantry          // dismounted troops; vulnerable to area fire
	Armored           // parameterized: reduces incoming damage by Value
	Entrenched        // dug in; -1 incoming damage
	Fortified         // prepared position; -2 incoming damage
	Command           // grants morale re-rolls to friendlies in comms range
	Jump              // jump-capable movement
	Scout             // unlocks infiltrate/ambush orders
	Amphibious        // water crossing
)

// String returns the canonical trait name.
// Postcondition: Returns a non-empty lowercase name, or "unknown".
func (id ID) String() string {
	switch id {
	case Flying:
		return "flying"
	case Hover:
		return "hover"
	case Heavy:
		return "heavy"
	case Infantry:
		return "infantry"
	case Armored:
		return "armored"
	case Entrenched:
		return "entrenched"
	case Fortified:
		return "fortified"
	case Command:
		return "command"
	case Jump:
		return "jump"
	case Scout:
		return "scout"
	case Amphibious:
		return "amphibious"
	default:
		return "unknown"
	}
}

// ParseID maps a canonical trait name to its ID.
//
// Postcondition: Returns (Unknown, error) for unrecognized names.
func ParseID(name string) (ID, error) {
	for id := Flying; id <= Amphibious; id++ {
		if id.String() == name {
			return id, nil
		}
	}
	return Unknown, fmt.Errorf("trait: unknown trait name %q", name)
}

// Trait is one capability instance on a unit.
type Trait struct {
	ID     ID
	Value  int  // parameter for parameterized traits (e.g. Armored 2); 0 otherwise
	Active bool // inactive traits have no effect
}

// Set tracks the traits carried by one unit.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	traits map[ID]*Trait
}

// NewSet creates a Set holding the given traits. All are stored as provided;
// duplicates keep the last occurrence.
func NewSet(traits ...Trait) *Set {
	s := &Set{traits: make(map[ID]*Trait)}
	for _, t := range traits {
		tt := t
		s.traits[t.ID] = &tt
	}
	return s
}

// Add inserts or replaces a trait.
//
// Precondition: t.ID must not be Unknown.
func (s *Set) Add(t Trait) error {
	if t.ID == Unknown {
		return fmt.Errorf("trait: cannot add trait with Unknown ID")
	}
	tt := t
	s.traits[t.ID] = &tt
	return nil
}

// Remove deletes the trait with the given ID. No-op if absent.
//
// Postcondition: Has(id) is false.
func (s *Set) Remove(id ID) {
	delete(s.traits, id)
}

// Has reports whether the trait is present, active or not.
func (s *Set) Has(id ID) bool {
	_, ok := s.traits[id]
	return ok
}

// HasActive reports whether the trait is present and active. All rule
// effects in the engine gate on this, never on bare presence.
func (s *Set) HasActive(id ID) bool {
	t, ok := s.traits[id]
	return ok && t.Active
}

// ActiveValue returns the parameter of an active trait, or 0 if the trait is
// absent or inactive.
func (s *Set) ActiveValue(id ID) int {
	if t, ok := s.traits[id]; ok && t.Active {
		return t.Value
	}
	return 0
}

// SetActive toggles the active flag on a present trait.
//
// Postcondition: Returns an error if the trait is not present.
func (s *Set) SetActive(id ID, active bool) error {
	t, ok := s.traits[id]
	if !ok {
		return fmt.Errorf("trait: %s not present", id)
	}
	t.Active = active
	return nil
}

// All returns a snapshot slice of the traits in the set. Mutating the slice
// does not affect the set.
func (s *Set) All() []Trait {
	out := make([]Trait, 0, len(s.traits))
	for _, t := range s.traits {
		out = append(out, *t)
	}
	return out
}
