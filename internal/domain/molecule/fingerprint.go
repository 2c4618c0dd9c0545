package molecule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// fingerprintVersion is bumped whenever the serialised form below changes so
// that cached results keyed by an older fingerprint are never reused.
const fingerprintVersion = "v1"

// Fingerprint returns a hex SHA-256 digest of the molecule's exact structure:
// atoms (element, charge) and bonds (endpoints, order, hints) in id order.
// Two molecules built by the same sequence of calls share a fingerprint; the
// digest is not a canonical identifier and is sensitive to atom numbering.
func (m *Molecule) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString(fingerprintVersion)
	sb.WriteString("|a")
	for _, a := range m.atoms {
		fmt.Fprintf(&sb, ";%d,%d", a.Element, a.FormalCharge)
	}
	sb.WriteString("|b")
	for _, b := range m.bonds {
		fmt.Fprintf(&sb, ";%d-%d,%d", b.Start, b.End, b.Order)
		if m.aromatic[b.ID] {
			sb.WriteString(",ar")
		}
		if k, ok := m.kekule[b.ID]; ok {
			fmt.Fprintf(&sb, ",k%d", k)
		}
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

//Personal.AI order the ending
