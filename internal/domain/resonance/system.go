// Package resonance discovers resonance systems: maximal connected sets of
// atoms and bonds that form one delocalised π subsystem.
package resonance

import (
	"slices"

	"github.com/turtacn/pauling/pkg/types/chem"
)

// ResonanceSystem is one conjugated subsystem.  Atoms and Bonds are sorted
// ascending without duplicates.  Values returned by FindSystems are owned by
// the caller but should be treated as immutable.
type ResonanceSystem struct {
	Atoms []chem.AtomID `json:"atoms"`
	Bonds []chem.BondID `json:"bonds"`
}

// NewResonanceSystem copies, sorts and deduplicates atoms and bonds.
func NewResonanceSystem(atoms []chem.AtomID, bonds []chem.BondID) ResonanceSystem {
	a := slices.Clone(atoms)
	slices.Sort(a)
	b := slices.Clone(bonds)
	slices.Sort(b)
	return ResonanceSystem{
		Atoms: slices.Compact(a),
		Bonds: slices.Compact(b),
	}
}

// Equal reports exact list equality.
func (s ResonanceSystem) Equal(o ResonanceSystem) bool {
	return slices.Equal(s.Atoms, o.Atoms) && slices.Equal(s.Bonds, o.Bonds)
}

// ContainsAtom reports whether id is part of the system.
func (s ResonanceSystem) ContainsAtom(id chem.AtomID) bool {
	_, ok := slices.BinarySearch(s.Atoms, id)
	return ok
}

// ContainsBond reports whether id is part of the system.
func (s ResonanceSystem) ContainsBond(id chem.BondID) bool {
	_, ok := slices.BinarySearch(s.Bonds, id)
	return ok
}

// compareSystems orders systems by their bond lists, lexicographically.
func compareSystems(a, b ResonanceSystem) int {
	return slices.Compare(a.Bonds, b.Bonds)
}

//Personal.AI order the ending
