package rules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Zycke/star-mercs/internal/game/trait"
)

// OrderCategory splits orders into the standard set every unit can take and
// special orders gated behind a trait.
type OrderCategory string

const (
	CategoryStandard OrderCategory = "standard"
	CategorySpecial  OrderCategory = "special"
)

// OrderDef is a named behaviour template loaded from YAML.
//
// ReadinessCost is signed: negative values cost readiness at consolidation,
// positive values recover it. SupplyModifier is a multiplier string such as
// "2x" or "0.5x" applied to the unit's supply usage rate.
type OrderDef struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	Category       OrderCategory `yaml:"category"`
	AllowsMovement bool          `yaml:"allows_movement"`
	AllowsAttack   bool          `yaml:"allows_attack"`
	ReadinessCost  int           `yaml:"readiness_cost"`
	SupplyModifier string        `yaml:"supply_modifier"`
	RequiredTrait  string        `yaml:"required_trait"` // trait name; empty = none

	// supplyMult is the parsed SupplyModifier, filled in at registration.
	supplyMult float64
	// requiredTrait is the parsed RequiredTrait, trait.Unknown when none.
	requiredTrait trait.ID
}

// SupplyMultiplier returns the parsed supply usage multiplier.
//
// Precondition: the def must have been registered (parsing happens there).
func (d *OrderDef) SupplyMultiplier() float64 { return d.supplyMult }

// RequiredTraitID returns the parsed trait gate, or trait.Unknown when the
// order has no trait requirement.
func (d *OrderDef) RequiredTraitID() trait.ID { return d.requiredTrait }

// parseSupplyModifier parses a multiplier string like "2x", "1x", "0.5x".
// An empty string means 1x.
func parseSupplyModifier(s string) (float64, error) {
	if s == "" {
		return 1, nil
	}
	if !strings.HasSuffix(s, "x") {
		return 0, fmt.Errorf("rules: supply modifier %q must end in 'x'", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("rules: invalid supply modifier %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("rules: supply modifier %q must not be negative", s)
	}
	return v, nil
}

// Orders holds all known OrderDefs keyed by ID.
type Orders struct {
	defs map[string]*OrderDef
}

// NewOrders creates an empty order table.
func NewOrders() *Orders {
	return &Orders{defs: make(map[string]*OrderDef)}
}

// Register validates and adds def, overwriting any existing entry with the
// same ID. The supply modifier and required trait are parsed here so lookups
// never re-parse.
//
// Precondition: def must not be nil.
// Postcondition: Get(def.ID) returns def, or an error is returned and the
// table is unchanged.
func (o *Orders) Register(def *OrderDef) error {
	if def == nil {
		return fmt.Errorf("rules: Register: def must not be nil")
	}
	if def.ID == "" {
		return fmt.Errorf("rules: Register: order ID must not be empty")
	}
	if def.Category != CategoryStandard && def.Category != CategorySpecial {
		return fmt.Errorf("rules: order %q: category must be standard or special, got %q", def.ID, def.Category)
	}
	mult, err := parseSupplyModifier(def.SupplyModifier)
	if err != nil {
		return fmt.Errorf("rules: order %q: %w", def.ID, err)
	}
	req := trait.Unknown
	if def.RequiredTrait != "" {
		req, err = trait.ParseID(def.RequiredTrait)
		if err != nil {
			return fmt.Errorf("rules: order %q: %w", def.ID, err)
		}
	}
	def.supplyMult = mult
	def.requiredTrait = req
	o.defs[def.ID] = def
	return nil
}

// Get returns the OrderDef for id, or (nil, false) if not found.
func (o *Orders) Get(id string) (*OrderDef, bool) {
	d, ok := o.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered OrderDefs.
func (o *Orders) All() []*OrderDef {
	out := make([]*OrderDef, 0, len(o.defs))
	for _, d := range o.defs {
		out = append(out, d)
	}
	return out
}

// brokenAllowed is the order set available to Breaking/Broken units.
var brokenAllowed = map[string]bool{OrderHold: true, OrderWithdraw: true}

// Eligible reports whether a unit with the given traits and morale impairment
// may take the order. impaired is true for Breaking/Broken units, which are
// restricted to hold and withdraw.
//
// Postcondition: Returns (false, reason) with a human-readable reason when
// ineligible.
func (o *Orders) Eligible(id string, traits *trait.Set, impaired bool) (bool, string) {
	def, ok := o.defs[id]
	if !ok {
		return false, fmt.Sprintf("unknown order %q", id)
	}
	if impaired && !brokenAllowed[id] {
		return false, "breaking units may only hold or withdraw"
	}
	if def.requiredTrait != trait.Unknown && !traits.HasActive(def.requiredTrait) {
		return false, fmt.Sprintf("order %q requires the %s trait", id, def.requiredTrait)
	}
	return true, ""
}

// Built-in order IDs referenced by the engine.
const (
	OrderHold      = "hold"
	OrderAdvance   = "advance"
	OrderAssault   = "assault"
	OrderWithdraw  = "withdraw"
	OrderOverwatch = "overwatch"
	OrderRally     = "rally"
)

// DefaultOrders returns the built-in order table. Hosts can extend or replace
// it with LoadOrdersDirectory.
func DefaultOrders() *Orders {
	o := NewOrders()
	defs := []*OrderDef{
		{ID: OrderHold, Name: "Hold", Category: CategoryStandard,
			AllowsMovement: false, AllowsAttack: true, ReadinessCost: 0, SupplyModifier: "1x"},
		{ID: OrderAdvance, Name: "Advance", Category: CategoryStandard,
			AllowsMovement: true, AllowsAttack: true, ReadinessCost: -1, SupplyModifier: "1x"},
		{ID: OrderAssault, Name: "Assault", Category: CategoryStandard,
			AllowsMovement: true, AllowsAttack: true, ReadinessCost: -2, SupplyModifier: "2x"},
		{ID: OrderWithdraw, Name: "Withdraw", Category: CategoryStandard,
			AllowsMovement: true, AllowsAttack: false, ReadinessCost: -1, SupplyModifier: "1x"},
		{ID: OrderOverwatch, Name: "Overwatch", Category: CategoryStandard,
			AllowsMovement: false, AllowsAttack: true, ReadinessCost: -1, SupplyModifier: "2x"},
		{ID: OrderRally, Name: "Rally", Category: CategoryStandard,
			AllowsMovement: false, AllowsAttack: false, ReadinessCost: 2, SupplyModifier: "0.5x"},
		{ID: "infiltrate", Name: "Infiltrate", Category: CategorySpecial,
			AllowsMovement: true, AllowsAttack: false, ReadinessCost: -1, SupplyModifier: "1x",
			RequiredTrait: "scout"},
		{ID: "ambush", Name: "Ambush", Category: CategorySpecial,
			AllowsMovement: false, AllowsAttack: true, ReadinessCost: -1, SupplyModifier: "0.5x",
			RequiredTrait: "scout"},
	}
	for _, d := range defs {
		if err := o.Register(d); err != nil {
			panic("rules: DefaultOrders: " + err.Error())
		}
	}
	return o
}

// LoadOrdersDirectory reads every *.yaml file in dir, parses each as an
// OrderDef, and returns a populated table.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Orders, or an error if any file fails to
// parse or register.
func LoadOrdersDirectory(dir string) (*Orders, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading order dir %q: %w", dir, err)
	}
	o := NewOrders()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def OrderDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := o.Register(&def); err != nil {
			return nil, err
		}
	}
	return o, nil
}
