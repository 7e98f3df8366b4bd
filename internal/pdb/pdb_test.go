package pdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePDB = `HEADER    TEST PROTEIN
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
ATOM      3  H   ALA A   1      10.500   5.500  -7.000  1.00  0.00           H
ATOM      4  CB BALA A   1      12.000   7.000  -4.000  1.00  0.00           C
ATOM      5  O   GLY B   2       9.500   4.500  -3.200  1.00  0.00           O
HETATM    6 ZN    ZN A  90       8.000   8.000   8.000  1.00  0.00          ZN
TER
END
`

func TestParsePDB(t *testing.T) {
	atoms, err := ParsePDB(strings.NewReader(samplePDB))
	require.NoError(t, err)

	// Hydrogen and the B conformer are skipped.
	require.Len(t, atoms, 4)

	assert.Equal(t, "N", atoms[0].Name)
	assert.Equal(t, "ALA", atoms[0].ResName)
	assert.Equal(t, "A", atoms[0].Chain)
	assert.Equal(t, 1, atoms[0].ResNumber)
	assert.InDelta(t, 11.104, atoms[0].X, 1e-9)
	assert.InDelta(t, 6.134, atoms[0].Y, 1e-9)
	assert.InDelta(t, -6.504, atoms[0].Z, 1e-9)
	assert.Equal(t, "N", atoms[0].Element)
	assert.InDelta(t, 1.55, atoms[0].Radius, 1e-9)

	assert.Equal(t, "CA", atoms[1].Name)
	assert.Equal(t, "C", atoms[1].Element)
	assert.InDelta(t, 1.70, atoms[1].Radius, 1e-9)

	assert.Equal(t, "GLY", atoms[2].ResName)
	assert.Equal(t, "B", atoms[2].Chain)

	// HETATM zinc comes through with its table radius.
	assert.Equal(t, "ZN", atoms[3].Element)
	assert.InDelta(t, 1.39, atoms[3].Radius, 1e-9)
}

func TestParsePDBElementFallback(t *testing.T) {
	// No element columns: the symbol is guessed from the atom name.
	line := "ATOM      1  CA  ALA A   1      11.104   6.134  -6.504"
	atoms, err := ParsePDB(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.Equal(t, "C", atoms[0].Element)
}

func TestParsePDBShortRecord(t *testing.T) {
	_, err := ParsePDB(strings.NewReader("ATOM      1  N   ALA A   1"))
	assert.Error(t, err)
}

func TestParsePDBBadCoordinate(t *testing.T) {
	line := "ATOM      1  N   ALA A   1      xx.xxx   6.134  -6.504  1.00  0.00           N"
	_, err := ParsePDB(strings.NewReader(line))
	assert.Error(t, err)
}

func TestXYZRAndResidueIDs(t *testing.T) {
	atoms, err := ParsePDB(strings.NewReader(samplePDB))
	require.NoError(t, err)

	xyzr := XYZR(atoms)
	require.Len(t, xyzr, len(atoms)*4)
	assert.InDelta(t, 11.104, xyzr[0], 1e-9)
	assert.InDelta(t, 1.55, xyzr[3], 1e-9)

	ids := ResidueIDs(atoms)
	assert.Equal(t, []string{"1_A", "1_A", "2_B", "90_A"}, ids)
}

func TestRadiusFallback(t *testing.T) {
	assert.InDelta(t, 1.70, Radius("C"), 1e-9)
	assert.InDelta(t, 1.70, Radius("c"), 1e-9)
	assert.InDelta(t, GenericRadius, Radius("XX"), 1e-9)
}
