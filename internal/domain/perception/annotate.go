package perception

import (
	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// AnnotateOptions tunes Annotate.
type AnnotateOptions struct {
	// KekulizeBudget bounds the Kekulé search per aromatic component.
	// Zero selects DefaultKekulizeBudget.
	KekulizeBudget int
}

// Annotate builds a ChemicalPerception from g and populates the annotator
// fields: TotalDegree, IsAromatic, KekuleOrder and IsConjugationCandidate.
// TotalValence, LonePairs and Hybridization are left zero for Perceive.
//
// Bond aromaticity comes from an Aromatic nominal order or, when g is a
// molecule.HintedGraph, from its aromatic hint.  A hinted Kekulé order is used
// for an aromatic bond as is; the remaining aromatic bonds are Kekulized.
func Annotate(g molecule.Graph, opts AnnotateOptions) *ChemicalPerception {
	hinted, _ := g.(molecule.HintedGraph)

	views := g.Atoms()
	atoms := make([]PerceivedAtom, len(views))
	for i, v := range views {
		atoms[i] = PerceivedAtom{ID: v.ID, Element: v.Element, FormalCharge: v.FormalCharge}
	}

	bviews := g.Bonds()
	bonds := make([]PerceivedBond, len(bviews))
	for i, v := range bviews {
		b := PerceivedBond{
			ID:          v.ID,
			Order:       v.Order,
			StartAtomID: v.StartAtomID,
			EndAtomID:   v.EndAtomID,
			IsAromatic:  v.Order == chem.Aromatic,
		}
		if hinted != nil {
			b.IsAromatic = b.IsAromatic || hinted.AromaticHint(v.ID)
			if k, ok := hinted.KekuleHint(v.ID); ok && b.IsAromatic && k.IsValid() && k != chem.Aromatic {
				b.KekuleOrder = &k
			}
		}
		bonds[i] = b
	}

	p := NewChemicalPerception(atoms, bonds)
	markAromaticAtoms(p)
	p.KekuleComplete = Kekulize(p, opts.KekulizeBudget)
	markConjugationCandidates(p)
	return p
}

func markAromaticAtoms(p *ChemicalPerception) {
	for i := range p.Atoms {
		for _, n := range p.Adjacency[i] {
			if p.Bonds[p.BondIndex[n.Bond]].IsAromatic {
				p.Atoms[i].IsAromatic = true
				break
			}
		}
	}
}

// markConjugationCandidates flags atoms that can take part in a delocalised
// system: aromatic atoms, atoms carrying a multiple bond, atoms with a lone
// pair and atoms with a vacant p orbital.  Hydrogen never qualifies.
func markConjugationCandidates(p *ChemicalPerception) {
	for i := range p.Atoms {
		a := &p.Atoms[i]
		if a.Element == chem.H {
			continue
		}
		if a.IsAromatic {
			a.IsConjugationCandidate = true
			continue
		}

		var valence uint8
		multiple := false
		for _, n := range p.Adjacency[i] {
			order := p.Bonds[p.BondIndex[n.Bond]].EffectiveOrder()
			if order.IsMultiple() {
				multiple = true
			}
			valence = chem.SaturatingAdd(valence, order.Multiplicity())
		}

		vacant := (a.Element.IsGroup13() && valence < 4) ||
			(a.Element == chem.C && a.FormalCharge > 0)

		a.IsConjugationCandidate = multiple ||
			vacant ||
			estimateLonePairs(a.Element, a.FormalCharge, valence) > 0
	}
}

//Personal.AI order the ending
