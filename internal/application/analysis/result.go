package analysis

import (
	"time"

	"github.com/turtacn/pauling/internal/domain/perception"
	"github.com/turtacn/pauling/internal/domain/resonance"
	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// AtomReport is the per-atom view of a finished perception.
type AtomReport struct {
	ID                   chem.AtomID        `json:"id"`
	Element              chem.Element       `json:"element"`
	FormalCharge         int8               `json:"formal_charge"`
	Degree               uint8              `json:"degree"`
	Valence              uint8              `json:"valence"`
	LonePairs            uint8              `json:"lone_pairs"`
	Hybridization        chem.Hybridization `json:"hybridization"`
	Aromatic             bool               `json:"aromatic"`
	ConjugationCandidate bool               `json:"conjugation_candidate"`
}

// Result is the outcome of analyzing one molecule.
type Result struct {
	ID             string                      `json:"id"`
	Fingerprint    string                      `json:"fingerprint"`
	AtomCount      int                         `json:"atom_count"`
	BondCount      int                         `json:"bond_count"`
	Atoms          []AtomReport                `json:"atoms"`
	Systems        []resonance.ResonanceSystem `json:"systems"`
	KekuleComplete bool                        `json:"kekule_complete"`
	Cached         bool                        `json:"cached"`
	Duration       time.Duration               `json:"duration_ns"`
	AnalyzedAt     time.Time                   `json:"analyzed_at"`
}

// ConjugatedAtoms returns the number of distinct atoms covered by a
// resonance system.
func (r *Result) ConjugatedAtoms() int {
	n := 0
	for _, s := range r.Systems {
		n += len(s.Atoms)
	}
	return n
}

// ItemError is the serialisable form of a failed batch item.
type ItemError struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// BatchItem pairs a batch position with its result or failure.
type BatchItem struct {
	Index  int        `json:"index"`
	Result *Result    `json:"result,omitempty"`
	Error  *ItemError `json:"error,omitempty"`
}

// OK reports whether the item was analyzed.
func (b BatchItem) OK() bool { return b.Error == nil }

func newItemError(err error) *ItemError {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	return &ItemError{Code: code, Message: err.Error()}
}

func buildReports(p *perception.ChemicalPerception) []AtomReport {
	out := make([]AtomReport, len(p.Atoms))
	for i, a := range p.Atoms {
		out[i] = AtomReport{
			ID:                   a.ID,
			Element:              a.Element,
			FormalCharge:         a.FormalCharge,
			Degree:               a.TotalDegree,
			Valence:              a.TotalValence,
			LonePairs:            a.LonePairs,
			Hybridization:        a.Hybridization,
			Aromatic:             a.IsAromatic,
			ConjugationCandidate: a.IsConjugationCandidate,
		}
	}
	return out
}

//Personal.AI order the ending
