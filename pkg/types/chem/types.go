// Package chem defines the plain chemistry value types shared by every layer
// of pauling: atom and bond identifiers, chemical elements, bond orders and
// hybridization states.  No graph logic lives here, so the package is safe to
// import from any layer without creating circular dependencies.
package chem

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Identifiers
// ─────────────────────────────────────────────────────────────────────────────

// AtomID identifies an atom within one molecule.  IDs are assigned in creation
// order starting at zero and are never reused.
type AtomID int

// BondID identifies a bond within one molecule, assigned like AtomID.
type BondID int

// ─────────────────────────────────────────────────────────────────────────────
// BondOrder
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the nominal order of a bond as written in the input structure.
type BondOrder uint8

const (
	Single BondOrder = iota + 1
	Double
	Triple
	// Aromatic marks a delocalised bond whose Kekulé order must be resolved
	// before valence can be counted.
	Aromatic
)

var bondOrderNames = map[BondOrder]string{
	Single:   "single",
	Double:   "double",
	Triple:   "triple",
	Aromatic: "aromatic",
}

// String returns the lower-case name of the order.
func (o BondOrder) String() string {
	if s, ok := bondOrderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("BondOrder(%d)", uint8(o))
}

// IsValid reports whether o is one of the four defined orders.
func (o BondOrder) IsValid() bool {
	_, ok := bondOrderNames[o]
	return ok
}

// Multiplicity returns the number of shared electron pairs for a localised
// order.  Aromatic has no integer multiplicity and panics: callers must resolve
// aromatic bonds to a Kekulé order first.
func (o BondOrder) Multiplicity() uint8 {
	switch o {
	case Single:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	default:
		panic(fmt.Sprintf("chem: bond order %s has no multiplicity", o))
	}
}

// IsMultiple reports whether o is a Double or Triple bond.
func (o BondOrder) IsMultiple() bool {
	return o == Double || o == Triple
}

// ParseBondOrder accepts the names produced by String (case-insensitive) as
// well as the numeric forms "1", "2", "3" and "4" (aromatic, as in MDL files).
func ParseBondOrder(s string) (BondOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "1":
		return Single, nil
	case "double", "2":
		return Double, nil
	case "triple", "3":
		return Triple, nil
	case "aromatic", "4", "1.5":
		return Aromatic, nil
	default:
		return 0, fmt.Errorf("chem: unknown bond order %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o BondOrder) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("chem: invalid bond order %d", uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *BondOrder) UnmarshalText(text []byte) error {
	v, err := ParseBondOrder(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Hybridization
// ─────────────────────────────────────────────────────────────────────────────

// Hybridization is the perceived orbital hybridization of an atom.
type Hybridization uint8

const (
	// HybridizationUnknown is the zero value and covers steric numbers outside 2..4.
	HybridizationUnknown Hybridization = iota
	SP
	SP2
	SP3
)

// String returns "sp", "sp2", "sp3" or "unknown".
func (h Hybridization) String() string {
	switch h {
	case SP:
		return "sp"
	case SP2:
		return "sp2"
	case SP3:
		return "sp3"
	default:
		return "unknown"
	}
}

// IsPlanarPi reports whether the state leaves an unhybridized p orbital
// available for a π system, i.e. SP or SP2.
func (h Hybridization) IsPlanarPi() bool {
	return h == SP || h == SP2
}

// MarshalText implements encoding.TextMarshaler.
func (h Hybridization) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hybridization) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sp":
		*h = SP
	case "sp2":
		*h = SP2
	case "sp3":
		*h = SP3
	case "unknown", "":
		*h = HybridizationUnknown
	default:
		return fmt.Errorf("chem: unknown hybridization %q", text)
	}
	return nil
}

// SaturatingAdd adds two uint8 counters, clamping at 255.
func SaturatingAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xFF {
		return 0xFF
	}
	return uint8(s)
}

// SaturatingUint8 converts a non-negative count to uint8, clamping at 255.
func SaturatingUint8(n int) uint8 {
	if n <= 0 {
		return 0
	}
	if n > 0xFF {
		return 0xFF
	}
	return uint8(n)
}

//Personal.AI order the ending
