package chem

import (
	"fmt"
	"strings"
)

// Element is a chemical element identified by its atomic number.  The zero
// value is not a valid element.
type Element uint8

// Frequently referenced elements.
const (
	H  Element = 1
	He Element = 2
	Li Element = 3
	Be Element = 4
	B  Element = 5
	C  Element = 6
	N  Element = 7
	O  Element = 8
	F  Element = 9
	Na Element = 11
	Mg Element = 12
	Al Element = 13
	Si Element = 14
	P  Element = 15
	S  Element = 16
	Cl Element = 17
	Fe Element = 26
	Cu Element = 29
	Zn Element = 30
	Ga Element = 31
	As Element = 33
	Se Element = 34
	Br Element = 35
	In Element = 49
	Te Element = 52
	I  Element = 53
	Pt Element = 78
	Tl Element = 81
)

// noValence marks elements without a tabulated valence-electron count.  Those
// are the d- and f-block metals, whose bonding is not described by a single
// outer-shell count.
const noValence = -1

type elementInfo struct {
	symbol  string
	valence int8
}

// elements is indexed by atomic number.
var elements = [...]elementInfo{
	0:  {"", noValence},
	1:  {"H", 1},
	2:  {"He", 2},
	3:  {"Li", 1},
	4:  {"Be", 2},
	5:  {"B", 3},
	6:  {"C", 4},
	7:  {"N", 5},
	8:  {"O", 6},
	9:  {"F", 7},
	10: {"Ne", 8},
	11: {"Na", 1},
	12: {"Mg", 2},
	13: {"Al", 3},
	14: {"Si", 4},
	15: {"P", 5},
	16: {"S", 6},
	17: {"Cl", 7},
	18: {"Ar", 8},
	19: {"K", 1},
	20: {"Ca", 2},
	21: {"Sc", noValence},
	22: {"Ti", noValence},
	23: {"V", noValence},
	24: {"Cr", noValence},
	25: {"Mn", noValence},
	26: {"Fe", noValence},
	27: {"Co", noValence},
	28: {"Ni", noValence},
	29: {"Cu", noValence},
	30: {"Zn", noValence},
	31: {"Ga", 3},
	32: {"Ge", 4},
	33: {"As", 5},
	34: {"Se", 6},
	35: {"Br", 7},
	36: {"Kr", 8},
	37: {"Rb", 1},
	38: {"Sr", 2},
	39: {"Y", noValence},
	40: {"Zr", noValence},
	41: {"Nb", noValence},
	42: {"Mo", noValence},
	43: {"Tc", noValence},
	44: {"Ru", noValence},
	45: {"Rh", noValence},
	46: {"Pd", noValence},
	47: {"Ag", noValence},
	48: {"Cd", noValence},
	49: {"In", 3},
	50: {"Sn", 4},
	51: {"Sb", 5},
	52: {"Te", 6},
	53: {"I", 7},
	54: {"Xe", 8},
	55: {"Cs", 1},
	56: {"Ba", 2},
	57: {"La", noValence},
	58: {"Ce", noValence},
	59: {"Pr", noValence},
	60: {"Nd", noValence},
	61: {"Pm", noValence},
	62: {"Sm", noValence},
	63: {"Eu", noValence},
	64: {"Gd", noValence},
	65: {"Tb", noValence},
	66: {"Dy", noValence},
	67: {"Ho", noValence},
	68: {"Er", noValence},
	69: {"Tm", noValence},
	70: {"Yb", noValence},
	71: {"Lu", noValence},
	72: {"Hf", noValence},
	73: {"Ta", noValence},
	74: {"W", noValence},
	75: {"Re", noValence},
	76: {"Os", noValence},
	77: {"Ir", noValence},
	78: {"Pt", noValence},
	79: {"Au", noValence},
	80: {"Hg", noValence},
	81: {"Tl", 3},
	82: {"Pb", 4},
	83: {"Bi", 5},
	84: {"Po", 6},
	85: {"At", 7},
	86: {"Rn", 8},
}

var symbolIndex = func() map[string]Element {
	m := make(map[string]Element, len(elements))
	for z := 1; z < len(elements); z++ {
		m[strings.ToLower(elements[z].symbol)] = Element(z)
	}
	return m
}()

// ParseElement resolves a symbol such as "C", "cl" or "Cl" to an Element.
// The deuterium and tritium labels "D" and "T" map to hydrogen.
func ParseElement(symbol string) (Element, error) {
	s := strings.ToLower(strings.TrimSpace(symbol))
	switch s {
	case "d", "t":
		return H, nil
	}
	if e, ok := symbolIndex[s]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("chem: unknown element symbol %q", symbol)
}

// IsValid reports whether e is a tabulated element.
func (e Element) IsValid() bool {
	return e > 0 && int(e) < len(elements)
}

// AtomicNumber returns the element's atomic number.
func (e Element) AtomicNumber() int {
	return int(e)
}

// Symbol returns the IUPAC symbol, or "" for an invalid element.
func (e Element) Symbol() string {
	if !e.IsValid() {
		return ""
	}
	return elements[e].symbol
}

func (e Element) String() string {
	if !e.IsValid() {
		return fmt.Sprintf("Element(%d)", uint8(e))
	}
	return elements[e].symbol
}

// ValenceElectrons returns the outer-shell electron count for main-group
// elements.  ok is false for elements without a tabulated count.
func (e Element) ValenceElectrons() (n uint8, ok bool) {
	if !e.IsValid() || elements[e].valence == noValence {
		return 0, false
	}
	return uint8(elements[e].valence), true
}

// IsGroup13 reports whether e belongs to the boron group.
func (e Element) IsGroup13() bool {
	switch e {
	case B, Al, Ga, In, Tl:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler using the element symbol.
func (e Element) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("chem: invalid element %d", uint8(e))
	}
	return []byte(e.Symbol()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	v, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

//Personal.AI order the ending
