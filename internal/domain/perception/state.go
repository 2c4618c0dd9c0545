// Package perception infers electronic-structure properties of a molecule
// from its connectivity: total valence, lone pairs and hybridization.
//
// The package is organised around ChemicalPerception, an id-indexed snapshot
// of a molecule.  Annotate builds it from a molecule.Graph and fills in the
// fields an external annotator is responsible for (degree, aromaticity, Kekulé
// orders, conjugation candidates); Perceive then computes the remaining
// fields in place.  Nothing in this package returns an error: ids that do not
// resolve are skipped.
package perception

import (
	"github.com/turtacn/pauling/pkg/types/chem"
)

// PerceivedAtom is the per-atom perception record.
type PerceivedAtom struct {
	ID           chem.AtomID
	Element      chem.Element
	FormalCharge int8

	// TotalDegree is the number of incident bonds.  Supplied by the annotator.
	TotalDegree uint8

	// TotalValence is the sum of effective bond multiplicities.  Computed.
	TotalValence uint8
	// LonePairs is the estimated number of non-bonding electron pairs.  Computed.
	LonePairs uint8
	// Hybridization is the perceived orbital hybridization.  Computed.
	Hybridization chem.Hybridization

	IsAromatic             bool
	IsConjugationCandidate bool
}

// PerceivedBond is the per-bond perception record.
type PerceivedBond struct {
	ID          chem.BondID
	Order       chem.BondOrder
	KekuleOrder *chem.BondOrder
	StartAtomID chem.AtomID
	EndAtomID   chem.AtomID
	IsAromatic  bool
}

// EffectiveOrder returns the Kekulé override when present, else the nominal
// order.
func (b *PerceivedBond) EffectiveOrder() chem.BondOrder {
	if b.KekuleOrder != nil {
		return *b.KekuleOrder
	}
	return b.Order
}

// Neighbor is one adjacency entry: the neighbouring atom's position in
// ChemicalPerception.Atoms and the id of the connecting bond.
type Neighbor struct {
	Atom int
	Bond chem.BondID
}

// ChemicalPerception is the container shared by the perception pass and the
// resonance finder.
//
// AtomIndex and BondIndex map ids to positions in Atoms and Bonds and are
// bijections onto those slices.  Adjacency is indexed by atom position; every
// bond whose endpoints both resolve appears exactly once in the list of each
// endpoint.
type ChemicalPerception struct {
	Atoms     []PerceivedAtom
	Bonds     []PerceivedBond
	AtomIndex map[chem.AtomID]int
	BondIndex map[chem.BondID]int
	Adjacency [][]Neighbor

	// KekuleComplete is set by Annotate when every aromatic component
	// received a perfect Kekulé assignment.
	KekuleComplete bool
}

// NewChemicalPerception assembles a container from pre-populated atom and
// bond records, deriving the id indices and adjacency.  Records with an id
// already seen are dropped, as are adjacency entries for bonds whose
// endpoints do not resolve.  TotalDegree is recomputed from the adjacency.
func NewChemicalPerception(atoms []PerceivedAtom, bonds []PerceivedBond) *ChemicalPerception {
	p := &ChemicalPerception{
		Atoms:     make([]PerceivedAtom, 0, len(atoms)),
		Bonds:     make([]PerceivedBond, 0, len(bonds)),
		AtomIndex: make(map[chem.AtomID]int, len(atoms)),
		BondIndex: make(map[chem.BondID]int, len(bonds)),
	}
	for _, a := range atoms {
		if _, dup := p.AtomIndex[a.ID]; dup {
			continue
		}
		p.AtomIndex[a.ID] = len(p.Atoms)
		p.Atoms = append(p.Atoms, a)
	}
	for _, b := range bonds {
		if _, dup := p.BondIndex[b.ID]; dup {
			continue
		}
		p.BondIndex[b.ID] = len(p.Bonds)
		p.Bonds = append(p.Bonds, b)
	}

	p.Adjacency = make([][]Neighbor, len(p.Atoms))
	for _, b := range p.Bonds {
		si, sok := p.AtomIndex[b.StartAtomID]
		ei, eok := p.AtomIndex[b.EndAtomID]
		if !sok || !eok || si == ei {
			continue
		}
		p.Adjacency[si] = append(p.Adjacency[si], Neighbor{Atom: ei, Bond: b.ID})
		p.Adjacency[ei] = append(p.Adjacency[ei], Neighbor{Atom: si, Bond: b.ID})
	}
	for i := range p.Atoms {
		p.Atoms[i].TotalDegree = chem.SaturatingUint8(len(p.Adjacency[i]))
	}
	return p
}

// Atom returns the record for id, or nil.
func (p *ChemicalPerception) Atom(id chem.AtomID) *PerceivedAtom {
	i, ok := p.AtomIndex[id]
	if !ok {
		return nil
	}
	return &p.Atoms[i]
}

// Bond returns the record for id, or nil.
func (p *ChemicalPerception) Bond(id chem.BondID) *PerceivedBond {
	i, ok := p.BondIndex[id]
	if !ok {
		return nil
	}
	return &p.Bonds[i]
}

//Personal.AI order the ending
