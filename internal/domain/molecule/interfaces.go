package molecule

import (
	"github.com/turtacn/pauling/pkg/types/chem"
)

// AtomView is the read-only projection of an atom exposed to perception.
type AtomView struct {
	ID           chem.AtomID
	Element      chem.Element
	FormalCharge int8
}

// BondView is the read-only projection of a bond exposed to perception.
type BondView struct {
	ID          chem.BondID
	Order       chem.BondOrder
	StartAtomID chem.AtomID
	EndAtomID   chem.AtomID
}

// Graph is the minimal connectivity contract consumed by the annotator.  Any
// representation that can enumerate its atoms and bonds satisfies it.
type Graph interface {
	Atoms() []AtomView
	Bonds() []BondView
}

// HintedGraph is implemented by graphs that carry aromaticity or Kekulé
// annotations taken from the input document.  The annotator prefers these
// hints over its own inference.
type HintedGraph interface {
	Graph
	AromaticHint(id chem.BondID) bool
	KekuleHint(id chem.BondID) (chem.BondOrder, bool)
}

//Personal.AI order the ending
