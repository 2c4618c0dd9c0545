package resonance

import (
	"slices"

	"github.com/turtacn/pauling/internal/domain/perception"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// FindSystems returns the resonance systems of p, ordered by their bond
// lists.  p must have been annotated; Perceive need not have run.  The result
// is never nil.
//
// A bond seeds the conjugated set when it is aromatic or its effective order
// is Double or Triple.  The set then grows to the fixed point where no
// conjugation candidate touching a conjugated bond has a remaining incident
// bond to another candidate.  Systems are the connected components of the
// conjugated bonds, joined through shared atoms.  Ids that do not resolve in
// p are skipped.
func FindSystems(p *perception.ChemicalPerception) []ResonanceSystem {
	systems := []ResonanceSystem{}
	if len(p.Bonds) == 0 {
		return systems
	}
	conjugated := expandConjugated(p)
	systems = groupSystems(p, conjugated, systems)
	slices.SortFunc(systems, compareSystems)
	return systems
}

func isSeed(b *perception.PerceivedBond) bool {
	return b.IsAromatic || b.EffectiveOrder().IsMultiple()
}

// expandConjugated marks conjugated bonds by bond position.  Each newly
// marked bond is queued once; each candidate atom is expanded once, when the
// first conjugated bond reaches it.
func expandConjugated(p *perception.ChemicalPerception) []bool {
	conjugated := make([]bool, len(p.Bonds))
	expanded := make([]bool, len(p.Atoms))

	var work []int
	for i := range p.Bonds {
		if isSeed(&p.Bonds[i]) {
			conjugated[i] = true
			work = append(work, i)
		}
	}

	for len(work) > 0 {
		bi := work[len(work)-1]
		work = work[:len(work)-1]

		b := &p.Bonds[bi]
		si, sok := p.AtomIndex[b.StartAtomID]
		ei, eok := p.AtomIndex[b.EndAtomID]
		if !sok || !eok {
			continue
		}
		for _, ai := range [2]int{si, ei} {
			if expanded[ai] || !p.Atoms[ai].IsConjugationCandidate {
				continue
			}
			expanded[ai] = true
			for _, n := range p.Adjacency[ai] {
				nbi, ok := p.BondIndex[n.Bond]
				if !ok || conjugated[nbi] || !p.Atoms[n.Atom].IsConjugationCandidate {
					continue
				}
				conjugated[nbi] = true
				work = append(work, nbi)
			}
		}
	}
	return conjugated
}

// groupSystems appends one system per connected component of the conjugated
// bonds to out, visiting bonds in position order.
func groupSystems(p *perception.ChemicalPerception, conjugated []bool, out []ResonanceSystem) []ResonanceSystem {
	visited := make([]bool, len(p.Bonds))
	for start := range p.Bonds {
		if !conjugated[start] || visited[start] {
			continue
		}
		visited[start] = true

		var atoms []chem.AtomID
		var bonds []chem.BondID
		queue := []int{start}
		for q := 0; q < len(queue); q++ {
			b := &p.Bonds[queue[q]]
			bonds = append(bonds, b.ID)
			for _, id := range [2]chem.AtomID{b.StartAtomID, b.EndAtomID} {
				ai, ok := p.AtomIndex[id]
				if !ok {
					continue
				}
				atoms = append(atoms, id)
				for _, n := range p.Adjacency[ai] {
					nbi, ok := p.BondIndex[n.Bond]
					if ok && conjugated[nbi] && !visited[nbi] {
						visited[nbi] = true
						queue = append(queue, nbi)
					}
				}
			}
		}
		out = append(out, NewResonanceSystem(atoms, bonds))
	}
	return out
}

//Personal.AI order the ending
