package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/pauling/pkg/types/chem"
)

func ethene(t *testing.T) *Molecule {
	t.Helper()
	m := NewMolecule()
	m.AddAtom(chem.C, 0)
	m.AddAtom(chem.C, 0)
	_, err := m.AddBond(0, 1, chem.Double)
	require.NoError(t, err)
	return m
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := ethene(t).Fingerprint()
	b := ethene(t).Fingerprint()
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprint_SensitiveToStructure(t *testing.T) {
	base := ethene(t).Fingerprint()

	charged := ethene(t)
	charged.atoms[0].FormalCharge = 1
	assert.NotEqual(t, base, charged.Fingerprint())

	hinted := ethene(t)
	hinted.SetAromatic(0)
	assert.NotEqual(t, base, hinted.Fingerprint())

	kek := ethene(t)
	kek.SetKekuleOrder(0, chem.Single)
	assert.NotEqual(t, base, kek.Fingerprint())

	assert.NotEqual(t, base, NewMolecule().Fingerprint())
}

//Personal.AI order the ending
