// Package molecule provides the molecular graph builder used as input to
// perception.  A Molecule is an append-only list of atoms and bonds with a
// per-atom adjacency list; identifiers are dense positions assigned in creation
// order and never reused.
package molecule

import (
	"github.com/turtacn/pauling/pkg/types/chem"
)

// Atom is a node of the molecular graph.
type Atom struct {
	ID           chem.AtomID  `json:"id"`
	Element      chem.Element `json:"element"`
	FormalCharge int8         `json:"charge"`
}

// Bond is an undirected edge of the molecular graph.  Start and End preserve
// the order given at creation.
type Bond struct {
	ID    chem.BondID    `json:"id"`
	Order chem.BondOrder `json:"order"`
	Start chem.AtomID    `json:"start"`
	End   chem.AtomID    `json:"end"`
}

// Other returns the endpoint of b opposite to id.
func (b Bond) Other(id chem.AtomID) chem.AtomID {
	if b.Start == id {
		return b.End
	}
	return b.Start
}

// Molecule is the graph builder.  The zero value is an empty molecule ready
// for use.  A Molecule is not safe for concurrent mutation.
type Molecule struct {
	atoms     []Atom
	bonds     []Bond
	adjacency [][]chem.BondID

	aromatic map[chem.BondID]bool
	kekule   map[chem.BondID]chem.BondOrder
}

// NewMolecule returns an empty molecule.
func NewMolecule() *Molecule {
	return &Molecule{}
}

// AddAtom appends an atom and returns its id.
func (m *Molecule) AddAtom(element chem.Element, formalCharge int8) chem.AtomID {
	id := chem.AtomID(len(m.atoms))
	m.atoms = append(m.atoms, Atom{ID: id, Element: element, FormalCharge: formalCharge})
	m.adjacency = append(m.adjacency, nil)
	return id
}

// AddBond connects two existing atoms and returns the new bond's id.
//
// Self-loops are a programming error and panic.  An endpoint outside the atom
// range yields an MOL_016 error caused by *AtomNotFoundError; a second bond
// between the same pair, in either direction, yields an MOL_017 error caused by
// *DuplicateBondError.
func (m *Molecule) AddBond(start, end chem.AtomID, order chem.BondOrder) (chem.BondID, error) {
	if start == end {
		panic("molecule: self-loop bonds are not supported")
	}

	maxID := chem.AtomID(0)
	if len(m.atoms) > 0 {
		maxID = chem.AtomID(len(m.atoms) - 1)
	}
	if !m.hasAtom(start) {
		return 0, newAtomNotFound(start, maxID)
	}
	if !m.hasAtom(end) {
		return 0, newAtomNotFound(end, maxID)
	}

	check := end
	if len(m.adjacency[start]) < len(m.adjacency[end]) {
		check = start
	}
	for _, bid := range m.adjacency[check] {
		b := m.bonds[bid]
		if (b.Start == start && b.End == end) || (b.Start == end && b.End == start) {
			return 0, newDuplicateBond(start, end)
		}
	}

	id := chem.BondID(len(m.bonds))
	m.bonds = append(m.bonds, Bond{ID: id, Order: order, Start: start, End: end})
	m.adjacency[start] = append(m.adjacency[start], id)
	m.adjacency[end] = append(m.adjacency[end], id)
	return id, nil
}

func (m *Molecule) hasAtom(id chem.AtomID) bool {
	return id >= 0 && int(id) < len(m.atoms)
}

func (m *Molecule) hasBond(id chem.BondID) bool {
	return id >= 0 && int(id) < len(m.bonds)
}

// Atom returns the atom with the given id.
func (m *Molecule) Atom(id chem.AtomID) (Atom, bool) {
	if !m.hasAtom(id) {
		return Atom{}, false
	}
	return m.atoms[id], true
}

// Bond returns the bond with the given id.
func (m *Molecule) Bond(id chem.BondID) (Bond, bool) {
	if !m.hasBond(id) {
		return Bond{}, false
	}
	return m.bonds[id], true
}

// BondsOfAtom returns the ids of the bonds incident to id in creation order.
// An unknown id yields nil.
func (m *Molecule) BondsOfAtom(id chem.AtomID) []chem.BondID {
	if !m.hasAtom(id) {
		return nil
	}
	out := make([]chem.BondID, len(m.adjacency[id]))
	copy(out, m.adjacency[id])
	return out
}

// NumAtoms returns the number of atoms.
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// ─────────────────────────────────────────────────────────────────────────────
// Annotation hints
// ─────────────────────────────────────────────────────────────────────────────

// SetAromatic flags a bond as aromatic regardless of its nominal order.
// Unknown ids are ignored.
func (m *Molecule) SetAromatic(id chem.BondID) {
	if !m.hasBond(id) {
		return
	}
	if m.aromatic == nil {
		m.aromatic = make(map[chem.BondID]bool)
	}
	m.aromatic[id] = true
}

// SetKekuleOrder records the localised order of an aromatic bond.  Only
// Single, Double and Triple are accepted; anything else or an unknown id is
// ignored.
func (m *Molecule) SetKekuleOrder(id chem.BondID, order chem.BondOrder) {
	if !m.hasBond(id) || order == chem.Aromatic || !order.IsValid() {
		return
	}
	if m.kekule == nil {
		m.kekule = make(map[chem.BondID]chem.BondOrder)
	}
	m.kekule[id] = order
}

// AromaticHint implements HintedGraph.
func (m *Molecule) AromaticHint(id chem.BondID) bool {
	return m.aromatic[id]
}

// KekuleHint implements HintedGraph.
func (m *Molecule) KekuleHint(id chem.BondID) (chem.BondOrder, bool) {
	o, ok := m.kekule[id]
	return o, ok
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph
// ─────────────────────────────────────────────────────────────────────────────

// Atoms implements Graph.
func (m *Molecule) Atoms() []AtomView {
	out := make([]AtomView, len(m.atoms))
	for i, a := range m.atoms {
		out[i] = AtomView{ID: a.ID, Element: a.Element, FormalCharge: a.FormalCharge}
	}
	return out
}

// Bonds implements Graph.
func (m *Molecule) Bonds() []BondView {
	out := make([]BondView, len(m.bonds))
	for i, b := range m.bonds {
		out[i] = BondView{ID: b.ID, Order: b.Order, StartAtomID: b.Start, EndAtomID: b.End}
	}
	return out
}

var _ HintedGraph = (*Molecule)(nil)

//Personal.AI order the ending
