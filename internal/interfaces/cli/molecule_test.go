package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/domain/charge"
	"github.com/turtacn/jazzy-go/internal/testutil"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

func TestChargesCmd(t *testing.T) {
	h := newCLIHarness()

	out, err := h.run("charges", "--smiles", "c1ccccn1", "-o", "json")
	require.NoError(t, err)
	res := decodeJSON[ChargesResult](t, out)
	assert.Equal(t, "kallisto", res.Method)
	assert.Equal(t, testutil.PyridineEEQ, res.Charges)
	require.Len(t, res.Symbols, 11)
	assert.Equal(t, "N", res.Symbols[5])

	out, err = h.run("charges", "--smiles", "c1ccccn1", "--method", "MMFF94", "-o", "json")
	require.NoError(t, err)
	res = decodeJSON[ChargesResult](t, out)
	assert.Equal(t, testutil.PyridineMMFF94, res.Charges)
	assert.Contains(t, h.toolkit.Calls, "MMFF94Charges:c1ccccn1")
}

func TestChargesCmd_Table(t *testing.T) {
	h := newCLIHarness()
	out, err := h.run("charges", "--smiles", "c1ccccn1", "--method", "MMFF94", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "charge")
	assert.Contains(t, out, "-0.62")
}

func TestChargesCmd_UnsupportedMethod(t *testing.T) {
	h := newCLIHarness()
	_, err := h.run("charges", "--smiles", "c1ccccn1", "--method", "gasteiger")
	require.Error(t, err)
	assert.True(t, charge.IsUnsupportedMethod(err))
}

func writeMolfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mol.mol")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNeighborsCmd(t *testing.T) {
	h := newCLIHarness()
	path := writeMolfile(t, testutil.Pyridine().MolBlock())

	out, err := h.run("neighbors", "--molfile", path, "-o", "json")
	require.NoError(t, err)
	res := decodeJSON[NeighborsResult](t, out)
	require.Len(t, res.Neighbors, 11)
	assert.Equal(t, []int{0, 4}, res.Neighbors[5])
	assert.Equal(t, []int{1, 5, 6}, res.Neighbors[0])
	assert.Equal(t, "N", res.Symbols[5])
	assert.Empty(t, h.toolkit.Calls)
}

func TestNeighborsCmd_Stdin(t *testing.T) {
	h := newCLIHarness()
	out, err := h.runWithInput(strings.NewReader(testutil.Pyridine().MolBlock()), "neighbors", "--molfile", "-", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "neighbors")
	assert.Contains(t, out, "1,5,6")
}

func TestNeighborsCmd_Errors(t *testing.T) {
	h := newCLIHarness()

	_, err := h.run("neighbors", "--molfile", filepath.Join(t.TempDir(), "missing.mol"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = h.run("neighbors", "--molfile", writeMolfile(t, "junk"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeParsingFailed))
}

//Personal.AI order the ending
