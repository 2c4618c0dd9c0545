package testutil

import (
	"fmt"

	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/pkg/types/chem"
)

type atomSpec struct {
	element chem.Element
	charge  int8
}

type bondSpec struct {
	start, end chem.AtomID
	order      chem.BondOrder
}

func build(atoms []atomSpec, bonds []bondSpec) *molecule.Molecule {
	m := molecule.NewMolecule()
	for _, a := range atoms {
		m.AddAtom(a.element, a.charge)
	}
	for i, b := range bonds {
		if _, err := m.AddBond(b.start, b.end, b.order); err != nil {
			panic(fmt.Sprintf("testutil: fixture bond %d: %v", i, err))
		}
	}
	return m
}

func hydrogens(n int) []atomSpec {
	out := make([]atomSpec, n)
	for i := range out {
		out[i] = atomSpec{element: chem.H}
	}
	return out
}

// GlycineZwitterion returns +H3N-CH2-COO-.
//
//	atoms: 0 N+, 1 Cα, 2 C(carboxyl), 3 O-, 4 O, 5-9 H
//	bonds: 0 N-Cα, 1 Cα-C, 2 C-O-, 3 C=O, 4-6 N-H, 7-8 Cα-H
func GlycineZwitterion() *molecule.Molecule {
	atoms := append([]atomSpec{
		{chem.N, 1}, {chem.C, 0}, {chem.C, 0}, {chem.O, -1}, {chem.O, 0},
	}, hydrogens(5)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Single},
		{1, 2, chem.Single},
		{2, 3, chem.Single},
		{2, 4, chem.Double},
		{0, 5, chem.Single},
		{0, 6, chem.Single},
		{0, 7, chem.Single},
		{1, 8, chem.Single},
		{1, 9, chem.Single},
	})
}

// AlanineZwitterion returns +H3N-CH(CH3)-COO-.
//
//	atoms: 0 N+, 1 Cα, 2 C(carboxyl), 3 O-, 4 O, 5 CH3, 6-12 H
//	bonds: 0 N-Cα, 1 Cα-C, 2 C-O-, 3 C=O, 4 Cα-CH3, 5-7 N-H, 8 Cα-H, 9-11 CH3-H
func AlanineZwitterion() *molecule.Molecule {
	atoms := append([]atomSpec{
		{chem.N, 1}, {chem.C, 0}, {chem.C, 0}, {chem.O, -1}, {chem.O, 0}, {chem.C, 0},
	}, hydrogens(7)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Single},
		{1, 2, chem.Single},
		{2, 3, chem.Single},
		{2, 4, chem.Double},
		{1, 5, chem.Single},
		{0, 6, chem.Single},
		{0, 7, chem.Single},
		{0, 8, chem.Single},
		{1, 9, chem.Single},
		{5, 10, chem.Single},
		{5, 11, chem.Single},
		{5, 12, chem.Single},
	})
}

// aromaticRing returns ring atoms 0..len(ring)-1 joined by aromatic bonds
// 0..len(ring)-1 (bond i joins atom i and i+1), followed by one hydrogen per
// entry of hOn.
func aromaticRing(ring []atomSpec, hOn []chem.AtomID) *molecule.Molecule {
	atoms := append(append([]atomSpec{}, ring...), hydrogens(len(hOn))...)
	var bonds []bondSpec
	for i := range ring {
		bonds = append(bonds, bondSpec{chem.AtomID(i), chem.AtomID((i + 1) % len(ring)), chem.Aromatic})
	}
	for i, a := range hOn {
		bonds = append(bonds, bondSpec{a, chem.AtomID(len(ring) + i), chem.Single})
	}
	return build(atoms, bonds)
}

// Benzene returns C6H6 with aromatic ring bonds 0-5 and C-H bonds 6-11.
func Benzene() *molecule.Molecule {
	ring := []atomSpec{{chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}}
	return aromaticRing(ring, []chem.AtomID{0, 1, 2, 3, 4, 5})
}

// Pyridine returns C5H5N with N at atom 0 and aromatic ring bonds 0-5.
func Pyridine() *molecule.Molecule {
	ring := []atomSpec{{chem.N, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}}
	return aromaticRing(ring, []chem.AtomID{1, 2, 3, 4, 5})
}

// Pyrrole returns C4H5N with the NH nitrogen at atom 0, aromatic ring bonds
// 0-4 and the N-H bond at id 5.
func Pyrrole() *molecule.Molecule {
	ring := []atomSpec{{chem.N, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}}
	return aromaticRing(ring, []chem.AtomID{0, 1, 2, 3, 4})
}

// Furan returns C4H4O with O at atom 0 and aromatic ring bonds 0-4.
func Furan() *molecule.Molecule {
	ring := []atomSpec{{chem.O, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}}
	return aromaticRing(ring, []chem.AtomID{1, 2, 3, 4})
}

// Butadiene returns CH2=CH-CH=CH2.
//
//	atoms: 0-3 C, 4-9 H
//	bonds: 0 C0=C1, 1 C1-C2, 2 C2=C3, 3-8 C-H
func Butadiene() *molecule.Molecule {
	atoms := append([]atomSpec{{chem.C, 0}, {chem.C, 0}, {chem.C, 0}, {chem.C, 0}}, hydrogens(6)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Double},
		{1, 2, chem.Single},
		{2, 3, chem.Double},
		{0, 4, chem.Single},
		{0, 5, chem.Single},
		{1, 6, chem.Single},
		{2, 7, chem.Single},
		{3, 8, chem.Single},
		{3, 9, chem.Single},
	})
}

// Formamide returns H2N-CH=O.
//
//	atoms: 0 N, 1 C, 2 O, 3-5 H
//	bonds: 0 N-C, 1 C=O, 2-3 N-H, 4 C-H
func Formamide() *molecule.Molecule {
	atoms := append([]atomSpec{{chem.N, 0}, {chem.C, 0}, {chem.O, 0}}, hydrogens(3)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Single},
		{1, 2, chem.Double},
		{0, 3, chem.Single},
		{0, 4, chem.Single},
		{1, 5, chem.Single},
	})
}

// Methylamine returns CH3-NH2, a fully saturated control.
//
//	atoms: 0 C, 1 N, 2-6 H
func Methylamine() *molecule.Molecule {
	atoms := append([]atomSpec{{chem.C, 0}, {chem.N, 0}}, hydrogens(5)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Single},
		{0, 2, chem.Single},
		{0, 3, chem.Single},
		{0, 4, chem.Single},
		{1, 5, chem.Single},
		{1, 6, chem.Single},
	})
}

// Acetylene returns HC≡CH.
func Acetylene() *molecule.Molecule {
	atoms := append([]atomSpec{{chem.C, 0}, {chem.C, 0}}, hydrogens(2)...)
	return build(atoms, []bondSpec{
		{0, 1, chem.Triple},
		{0, 2, chem.Single},
		{1, 3, chem.Single},
	})
}

// EthyleneAndFormaldehyde returns two disconnected π fragments, H2C=CH2 and
// H2C=O, in a single molecule.  The formaldehyde fragment is created first so
// that its double bond has the lower id.
//
//	atoms: 0 C, 1 O, 2-3 H, 4-5 C, 6-9 H
//	bonds: 0 C=O, 1-2 C-H, 3 C=C, 4-7 C-H
func EthyleneAndFormaldehyde() *molecule.Molecule {
	atoms := []atomSpec{
		{chem.C, 0}, {chem.O, 0}, {chem.H, 0}, {chem.H, 0},
		{chem.C, 0}, {chem.C, 0}, {chem.H, 0}, {chem.H, 0}, {chem.H, 0}, {chem.H, 0},
	}
	return build(atoms, []bondSpec{
		{0, 1, chem.Double},
		{0, 2, chem.Single},
		{0, 3, chem.Single},
		{4, 5, chem.Double},
		{4, 6, chem.Single},
		{4, 7, chem.Single},
		{5, 8, chem.Single},
		{5, 9, chem.Single},
	})
}

//Personal.AI order the ending
