package perception

import (
	"slices"

	"github.com/turtacn/pauling/pkg/types/chem"
)

// DefaultKekulizeBudget bounds the number of search steps spent on one
// aromatic component before falling back to a greedy assignment.
const DefaultKekulizeBudget = 10000

// Kekulize assigns a localised Double or Single order to every aromatic bond
// of p that does not already carry one.  Within each connected aromatic
// component, atoms able to take one more π bond must each receive exactly one
// double bond.  The search backtracks for at most budget steps (the default
// when budget <= 0); when no perfect assignment is found a greedy matching is
// used instead and the remaining bonds become Single.  Existing Kekulé orders
// are left untouched and count towards their atoms' valence.
//
// It reports whether every component received a perfect assignment.
func Kekulize(p *ChemicalPerception, budget int) bool {
	if budget <= 0 {
		budget = DefaultKekulizeBudget
	}

	s := &kekuleSearch{
		p:        p,
		free:     make([]bool, len(p.Bonds)),
		eligible: make([]bool, len(p.Atoms)),
		matched:  make([]bool, len(p.Atoms)),
		double:   make([]bool, len(p.Bonds)),
		budget:   budget,
	}
	anyFree := false
	for i := range p.Bonds {
		b := &p.Bonds[i]
		if b.KekuleOrder == nil && (b.IsAromatic || b.Order == chem.Aromatic) {
			s.free[i] = true
			anyFree = true
		}
	}
	if !anyFree {
		return true
	}
	for i := range p.Atoms {
		s.eligible[i] = s.piCapacity(i) >= 1
	}

	complete := true
	for _, comp := range s.components() {
		var need []int
		for _, a := range comp {
			if s.eligible[a] {
				need = append(need, a)
			}
		}
		s.steps = 0
		if !s.solve(need, 0) {
			complete = false
			s.greedy(comp)
		}
	}

	for i := range p.Bonds {
		if !s.free[i] {
			continue
		}
		order := chem.Single
		if s.double[i] {
			order = chem.Double
		}
		p.Bonds[i].KekuleOrder = &order
	}
	return complete
}

type kekuleSearch struct {
	p        *ChemicalPerception
	free     []bool
	eligible []bool
	matched  []bool
	double   []bool
	steps    int
	budget   int
}

// piCapacity is the number of π bonds atom i could still accept if each of
// its unassigned aromatic bonds were single.
func (s *kekuleSearch) piCapacity(i int) int {
	a := &s.p.Atoms[i]
	std, ok := standardValence(a.Element, a.FormalCharge)
	if !ok {
		return 0
	}
	used := 0
	for _, n := range s.p.Adjacency[i] {
		bi := s.p.BondIndex[n.Bond]
		if s.free[bi] {
			used++
			continue
		}
		used += int(s.p.Bonds[bi].EffectiveOrder().Multiplicity())
	}
	return std - used
}

// components groups atoms connected through unassigned aromatic bonds.
// Atom positions within each component are ascending.
func (s *kekuleSearch) components() [][]int {
	seen := make([]bool, len(s.p.Atoms))
	var out [][]int
	for start := range s.p.Atoms {
		if seen[start] || !s.touchesFree(start) {
			continue
		}
		comp := []int{start}
		seen[start] = true
		for q := 0; q < len(comp); q++ {
			for _, n := range s.p.Adjacency[comp[q]] {
				if !s.free[s.p.BondIndex[n.Bond]] || seen[n.Atom] {
					continue
				}
				seen[n.Atom] = true
				comp = append(comp, n.Atom)
			}
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	return out
}

func (s *kekuleSearch) touchesFree(i int) bool {
	for _, n := range s.p.Adjacency[i] {
		if s.free[s.p.BondIndex[n.Bond]] {
			return true
		}
	}
	return false
}

// solve matches need[k:] with free bonds, depth first.
func (s *kekuleSearch) solve(need []int, k int) bool {
	for k < len(need) && s.matched[need[k]] {
		k++
	}
	if k == len(need) {
		return true
	}
	s.steps++
	if s.steps > s.budget {
		return false
	}
	a := need[k]
	for _, n := range s.p.Adjacency[a] {
		bi := s.p.BondIndex[n.Bond]
		if !s.free[bi] || !s.eligible[n.Atom] || s.matched[n.Atom] {
			continue
		}
		s.set(a, n.Atom, bi, true)
		if s.solve(need, k+1) {
			return true
		}
		s.set(a, n.Atom, bi, false)
	}
	return false
}

func (s *kekuleSearch) set(a, b, bond int, v bool) {
	s.matched[a] = v
	s.matched[b] = v
	s.double[bond] = v
}

// greedy discards any partial search state for comp and pairs eligible atoms
// in adjacency order.
func (s *kekuleSearch) greedy(comp []int) {
	for _, a := range comp {
		s.matched[a] = false
		for _, n := range s.p.Adjacency[a] {
			s.double[s.p.BondIndex[n.Bond]] = false
		}
	}
	for _, a := range comp {
		if !s.eligible[a] || s.matched[a] {
			continue
		}
		for _, n := range s.p.Adjacency[a] {
			bi := s.p.BondIndex[n.Bond]
			if s.free[bi] && s.eligible[n.Atom] && !s.matched[n.Atom] {
				s.set(a, n.Atom, bi, true)
				break
			}
		}
	}
}

// standardValence is the usual bond count of the common aromatic-ring
// elements, adjusted for formal charge.
func standardValence(e chem.Element, charge int8) (int, bool) {
	c := int(charge)
	switch e {
	case chem.C, chem.Si:
		if c < 0 {
			c = -c
		}
		return 4 - c, true
	case chem.N, chem.P, chem.As:
		return 3 + c, true
	case chem.O, chem.S, chem.Se, chem.Te:
		return 2 + c, true
	case chem.B:
		return 3 - c, true
	default:
		return 0, false
	}
}

//Personal.AI order the ending
