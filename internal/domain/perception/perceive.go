package perception

import (
	"github.com/turtacn/pauling/pkg/types/chem"
)

// Perceive computes TotalValence, LonePairs and Hybridization for every atom
// of p in place.  The annotator fields must already be populated and every
// aromatic bond must carry a Kekulé order; an aromatic effective order panics.
func Perceive(p *ChemicalPerception) {
	computeValence(p)
	perceiveHybridization(p)
}

func computeValence(p *ChemicalPerception) {
	for i := range p.Atoms {
		p.Atoms[i].TotalValence = 0
	}
	for i := range p.Bonds {
		b := &p.Bonds[i]
		m := b.EffectiveOrder().Multiplicity()
		if si, ok := p.AtomIndex[b.StartAtomID]; ok {
			p.Atoms[si].TotalValence = chem.SaturatingAdd(p.Atoms[si].TotalValence, m)
		}
		if ei, ok := p.AtomIndex[b.EndAtomID]; ok {
			p.Atoms[ei].TotalValence = chem.SaturatingAdd(p.Atoms[ei].TotalValence, m)
		}
	}
}

func perceiveHybridization(p *ChemicalPerception) {
	for i := range p.Atoms {
		a := &p.Atoms[i]
		a.LonePairs = estimateLonePairs(a.Element, a.FormalCharge, a.TotalValence)
		if a.IsAromatic {
			a.Hybridization = chem.SP2
			continue
		}
		a.Hybridization = hybridizationForSteric(chem.SaturatingAdd(a.TotalDegree, a.LonePairs))
	}

	// A lone pair next to a π system delocalises into it.  Decisions read a
	// frozen snapshot so the promotion is a single hop.
	snapshot := make([]chem.Hybridization, len(p.Atoms))
	for i := range p.Atoms {
		snapshot[i] = p.Atoms[i].Hybridization
	}
	for i := range p.Atoms {
		a := &p.Atoms[i]
		if a.Hybridization != chem.SP3 || a.LonePairs == 0 {
			continue
		}
		for _, n := range p.Adjacency[i] {
			if snapshot[n.Atom].IsPlanarPi() {
				a.Hybridization = chem.SP2
				break
			}
		}
	}
}

func hybridizationForSteric(steric uint8) chem.Hybridization {
	switch steric {
	case 2:
		return chem.SP
	case 3:
		return chem.SP2
	case 4:
		return chem.SP3
	default:
		return chem.HybridizationUnknown
	}
}

// estimateLonePairs returns floor(max(0, valence electrons - charge - valence) / 2),
// or zero for elements without a tabulated valence-electron count.
func estimateLonePairs(e chem.Element, charge int8, valence uint8) uint8 {
	ve, ok := e.ValenceElectrons()
	if !ok {
		return 0
	}
	nonBonding := int(ve) - int(charge) - int(valence)
	if nonBonding < 0 {
		nonBonding = 0
	}
	return chem.SaturatingUint8(nonBonding / 2)
}

//Personal.AI order the ending
