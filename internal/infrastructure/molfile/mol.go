// Package molfile decodes molecule documents into molecule.Molecule values.
// It reads MDL V2000 mol blocks, multi-record SD files and a JSON document
// format.
package molfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// maxLineLength bounds a single input line.
const maxLineLength = 1 << 20

// molAtom and molBond hold a record until the property block has been read,
// since M  CHG lines override the atom block.
type molAtom struct {
	element chem.Element
	charge  int8
}

type molBond struct {
	start, end int
	order      chem.BondOrder
	line       int
}

// molReader walks a mol block line by line, tracking the line number for
// error detail.
type molReader struct {
	sc   *bufio.Scanner
	line int
}

func newMolReader(r io.Reader) *molReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &molReader{sc: sc}
}

func (r *molReader) next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return strings.TrimRight(r.sc.Text(), "\r"), true
}

func (r *molReader) errorf(format string, args ...interface{}) *errors.AppError {
	return errors.New(errors.ErrCodeMoleculeParsingFailed, "invalid mol block").
		WithDetail(fmt.Sprintf("line %d: ", r.line) + fmt.Sprintf(format, args...))
}

// ParseMolV2000 reads one MDL V2000 mol block.  File atom indices are
// 1-based; the resulting atom ids are 0-based in file order, and bond ids
// follow the bond block order.
func ParseMolV2000(r io.Reader) (*molecule.Molecule, error) {
	mr := newMolReader(r)
	m, err := mr.readMol()
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "empty mol block")
	}
	return m, nil
}

// ParseSDF reads every record of an SD file.  Records are separated by
// "$$$$" lines; data items after M  END are skipped.
func ParseSDF(r io.Reader) ([]*molecule.Molecule, error) {
	mr := newMolReader(r)
	var out []*molecule.Molecule
	for {
		m, err := mr.readMol()
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("sdf record %d", len(out)+1))
		}
		if m == nil {
			break
		}
		out = append(out, m)
		if !mr.skipToRecordEnd() {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "sdf contains no records")
	}
	return out, nil
}

// readMol returns nil, nil at a clean end of input.
func (r *molReader) readMol() (*molecule.Molecule, error) {
	name, ok := r.next()
	if !ok {
		if err := r.sc.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeMoleculeParsingFailed, "failed to read mol block")
		}
		return nil, nil
	}
	for i := 0; i < 2; i++ {
		if _, ok := r.next(); !ok {
			if i == 0 && strings.TrimSpace(name) == "" {
				// Trailing blank line after the last record.
				return nil, nil
			}
			return nil, r.errorf("unexpected end of input in header")
		}
	}

	counts, ok := r.next()
	if !ok {
		return nil, r.errorf("missing counts line")
	}
	numAtoms, numBonds, err := r.parseCounts(counts)
	if err != nil {
		return nil, err
	}

	atoms := make([]molAtom, 0, numAtoms)
	for i := 0; i < numAtoms; i++ {
		line, ok := r.next()
		if !ok {
			return nil, r.errorf("expected %d atoms, found %d", numAtoms, i)
		}
		a, err := r.parseAtom(line)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, a)
	}

	bonds := make([]molBond, 0, numBonds)
	for i := 0; i < numBonds; i++ {
		line, ok := r.next()
		if !ok {
			return nil, r.errorf("expected %d bonds, found %d", numBonds, i)
		}
		b, err := r.parseBond(line, numAtoms)
		if err != nil {
			return nil, err
		}
		bonds = append(bonds, b)
	}

	if err := r.readProperties(atoms); err != nil {
		return nil, err
	}
	return buildMolecule(atoms, bonds)
}

func (r *molReader) parseCounts(line string) (int, int, error) {
	if version := strings.TrimSpace(column(line, 34, 39)); version == "V3000" {
		return 0, 0, errors.New(errors.ErrCodeMoleculeInvalidFormat, "V3000 mol blocks are not supported").
			WithDetail(fmt.Sprintf("line %d", r.line))
	}
	numAtoms, err := atoiField(line, 0, 3)
	if err != nil {
		return 0, 0, r.errorf("bad atom count: %v", err)
	}
	numBonds, err := atoiField(line, 3, 6)
	if err != nil {
		return 0, 0, r.errorf("bad bond count: %v", err)
	}
	if numAtoms < 0 || numBonds < 0 {
		return 0, 0, r.errorf("negative counts")
	}
	return numAtoms, numBonds, nil
}

// atomBlockCharge maps the atom block charge field to a formal charge.
// Code 4 marks a doublet radical and carries no charge.
var atomBlockCharge = map[int]int8{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3}

func (r *molReader) parseAtom(line string) (molAtom, error) {
	symbol := strings.TrimSpace(column(line, 31, 34))
	if symbol == "" {
		return molAtom{}, r.errorf("missing element symbol")
	}
	element, err := chem.ParseElement(symbol)
	if err != nil {
		return molAtom{}, errors.New(errors.ErrCodeUnknownElement, "unknown element").
			WithDetail(fmt.Sprintf("line %d: %q", r.line, symbol))
	}
	code := 0
	if f := strings.TrimSpace(column(line, 36, 39)); f != "" {
		if code, err = strconv.Atoi(f); err != nil {
			return molAtom{}, r.errorf("bad charge field %q", f)
		}
	}
	charge, ok := atomBlockCharge[code]
	if !ok {
		return molAtom{}, r.errorf("charge code %d is out of range [0, 7]", code)
	}
	return molAtom{element: element, charge: charge}, nil
}

func (r *molReader) parseBond(line string, numAtoms int) (molBond, error) {
	start, err := atoiField(line, 0, 3)
	if err != nil {
		return molBond{}, r.errorf("bad first atom: %v", err)
	}
	end, err := atoiField(line, 3, 6)
	if err != nil {
		return molBond{}, r.errorf("bad second atom: %v", err)
	}
	code, err := atoiField(line, 6, 9)
	if err != nil {
		return molBond{}, r.errorf("bad bond type: %v", err)
	}

	for _, idx := range [2]int{start, end} {
		if idx < 1 || idx > numAtoms {
			return molBond{}, r.errorf("atom index %d is out of range [1, %d]", idx, numAtoms)
		}
	}
	if start == end {
		return molBond{}, r.errorf("bond joins atom %d to itself", start)
	}
	if code < 1 || code > 4 {
		return molBond{}, errors.New(errors.ErrCodeUnknownBondOrder, "unsupported bond type").
			WithDetail(fmt.Sprintf("line %d: type %d", r.line, code))
	}
	return molBond{start: start - 1, end: end - 1, order: chem.BondOrder(code), line: r.line}, nil
}

// readProperties consumes the property block through M  END.  The first
// M  CHG line resets every atom block charge.
func (r *molReader) readProperties(atoms []molAtom) error {
	reset := false
	for {
		line, ok := r.next()
		if !ok {
			// Some writers omit M  END on the last record.
			return nil
		}
		if strings.HasPrefix(line, "M  END") {
			return nil
		}
		if !strings.HasPrefix(line, "M  CHG") {
			continue
		}
		if !reset {
			for i := range atoms {
				atoms[i].charge = 0
			}
			reset = true
		}
		if err := r.applyCharges(line, atoms); err != nil {
			return err
		}
	}
}

func (r *molReader) applyCharges(line string, atoms []molAtom) error {
	fields := strings.Fields(line[len("M  CHG"):])
	if len(fields) == 0 {
		return r.errorf("empty M  CHG line")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 || len(fields) != 1+2*n {
		return r.errorf("malformed M  CHG entry count")
	}
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(fields[1+2*i])
		if err != nil || idx < 1 || idx > len(atoms) {
			return r.errorf("M  CHG atom %q is out of range", fields[1+2*i])
		}
		charge, err := strconv.Atoi(fields[2+2*i])
		if err != nil || charge < -15 || charge > 15 {
			return r.errorf("M  CHG charge %q is out of range [-15, 15]", fields[2+2*i])
		}
		atoms[idx-1].charge = int8(charge)
	}
	return nil
}

// skipToRecordEnd advances past the SD data items to the line after "$$$$".
// It reports false at end of input.
func (r *molReader) skipToRecordEnd() bool {
	for {
		line, ok := r.next()
		if !ok {
			return false
		}
		if strings.HasPrefix(line, "$$$$") {
			return true
		}
	}
}

func buildMolecule(atoms []molAtom, bonds []molBond) (*molecule.Molecule, error) {
	m := molecule.NewMolecule()
	for _, a := range atoms {
		m.AddAtom(a.element, a.charge)
	}
	for _, b := range bonds {
		if _, err := m.AddBond(chem.AtomID(b.start), chem.AtomID(b.end), b.order); err != nil {
			return nil, annotate(err, fmt.Sprintf("line %d", b.line))
		}
	}
	return m, nil
}

// annotate prefixes the detail of an AppError with where, keeping its code
// and cause.
func annotate(err error, where string) error {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		return errors.Wrap(err, errors.ErrCodeMoleculeParsingFailed, where)
	}
	detail := where
	if ae.Detail != "" {
		detail += ": " + ae.Detail
	}
	return ae.WithDetail(detail)
}

// column returns line[start:end], clipped to the line length.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func atoiField(line string, start, end int) (int, error) {
	f := strings.TrimSpace(column(line, start, end))
	if f == "" {
		return 0, fmt.Errorf("empty field at columns %d-%d", start+1, end)
	}
	return strconv.Atoi(f)
}

//Personal.AI order the ending
