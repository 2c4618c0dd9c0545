package molfile

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/pkg/errors"
)

// Format names an input document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatMol  Format = "mol"
	FormatSDF  Format = "sdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatMol, FormatSDF}

// ParseFormat resolves a case-insensitive format name.  "" selects JSON and
// "molfile" is accepted for mol.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "mol", "molfile":
		return FormatMol, nil
	case "sdf", "sd":
		return FormatSDF, nil
	}
	return "", errors.New(errors.ErrCodeMoleculeInvalidFormat, "unsupported format").WithDetail(s)
}

// FormatFromPath guesses the format from a file extension, falling back to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mol":
		return FormatMol
	case ".sdf", ".sd":
		return FormatSDF
	}
	return FormatJSON
}

// Decode reads exactly one molecule.  An SD file must hold a single record.
func Decode(format Format, r io.Reader) (*molecule.Molecule, error) {
	switch format {
	case FormatJSON, "":
		return DecodeJSON(r)
	case FormatMol:
		return ParseMolV2000(r)
	case FormatSDF:
		ms, err := ParseSDF(r)
		if err != nil {
			return nil, err
		}
		if len(ms) != 1 {
			return nil, errors.Newf(errors.ErrCodeMoleculeInvalidFormat, "expected one sdf record, found %d", len(ms))
		}
		return ms[0], nil
	}
	return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "unsupported format").WithDetail(string(format))
}

// DecodeAll reads every molecule of a document: a JSON object or array, a
// single mol block, or all SD records.
func DecodeAll(format Format, r io.Reader) ([]*molecule.Molecule, error) {
	switch format {
	case FormatJSON, "":
		return DecodeJSONAll(r)
	case FormatMol:
		m, err := ParseMolV2000(r)
		if err != nil {
			return nil, err
		}
		return []*molecule.Molecule{m}, nil
	case FormatSDF:
		return ParseSDF(r)
	}
	return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "unsupported format").WithDetail(string(format))
}

//Personal.AI order the ending
