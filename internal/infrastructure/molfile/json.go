package molfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// Document is the JSON form of a molecule.  Atom ids are positions in Atoms;
// bond ids are positions in Bonds.
type Document struct {
	Name  string       `json:"name,omitempty"`
	Atoms []AtomRecord `json:"atoms"`
	Bonds []BondRecord `json:"bonds"`
}

// AtomRecord is one atom of a Document.
type AtomRecord struct {
	Element string `json:"element"`
	Charge  int    `json:"charge,omitempty"`
}

// BondRecord is one bond of a Document.  Order accepts the names and numeric
// forms of chem.ParseBondOrder.  Aromatic and Kekule become annotation hints.
type BondRecord struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Order    string `json:"order"`
	Aromatic bool   `json:"aromatic,omitempty"`
	Kekule   string `json:"kekule,omitempty"`
}

// DecodeJSON reads a single Document.
func DecodeJSON(r io.Reader) (*molecule.Molecule, error) {
	var doc Document
	if err := decodeStrict(r, &doc); err != nil {
		return nil, err
	}
	return doc.Molecule()
}

// DecodeJSONAll reads either a single Document or an array of Documents.
func DecodeJSONAll(r io.Reader) ([]*molecule.Molecule, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "empty json document")
	}
	if first != '[' {
		m, err := DecodeJSON(br)
		if err != nil {
			return nil, err
		}
		return []*molecule.Molecule{m}, nil
	}

	var docs []Document
	if err := decodeStrict(br, &docs); err != nil {
		return nil, err
	}
	out := make([]*molecule.Molecule, len(docs))
	for i := range docs {
		m, err := docs[i].Molecule()
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("document %d", i))
		}
		out[i] = m
	}
	return out, nil
}

// Molecule builds the molecule described by d.
func (d *Document) Molecule() (*molecule.Molecule, error) {
	m := molecule.NewMolecule()
	for i, a := range d.Atoms {
		element, err := chem.ParseElement(a.Element)
		if err != nil {
			return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element").
				WithDetail(fmt.Sprintf("atoms[%d]: %q", i, a.Element))
		}
		if a.Charge < -127 || a.Charge > 127 {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "formal charge out of range").
				WithDetail(fmt.Sprintf("atoms[%d]: %d", i, a.Charge))
		}
		m.AddAtom(element, int8(a.Charge))
	}

	for i, b := range d.Bonds {
		order, err := chem.ParseBondOrder(b.Order)
		if err != nil {
			return nil, errors.New(errors.ErrCodeUnknownBondOrder, "unknown bond order").
				WithDetail(fmt.Sprintf("bonds[%d]: %q", i, b.Order))
		}
		if b.Start == b.End {
			return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "bond joins an atom to itself").
				WithDetail(fmt.Sprintf("bonds[%d]: atom %d", i, b.Start))
		}
		if b.Start < 0 || b.End < 0 {
			return nil, errors.New(errors.ErrCodeAtomNotFound, "atom not found").
				WithDetail(fmt.Sprintf("bonds[%d]: negative atom index", i))
		}
		id, err := m.AddBond(chem.AtomID(b.Start), chem.AtomID(b.End), order)
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("bonds[%d]", i))
		}
		if b.Aromatic {
			m.SetAromatic(id)
		}
		if b.Kekule != "" {
			k, err := chem.ParseBondOrder(b.Kekule)
			if err != nil || k == chem.Aromatic {
				return nil, errors.New(errors.ErrCodeUnknownBondOrder, "invalid kekule order").
					WithDetail(fmt.Sprintf("bonds[%d]: %q", i, b.Kekule))
			}
			m.SetKekuleOrder(id, k)
		}
	}
	return m, nil
}

func decodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeMoleculeInvalidFormat, "malformed json document").
			WithDetail(err.Error())
	}
	if dec.More() {
		return errors.New(errors.ErrCodeMoleculeInvalidFormat, "malformed json document").
			WithDetail("unexpected data after the document")
	}
	return nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

//Personal.AI order the ending
