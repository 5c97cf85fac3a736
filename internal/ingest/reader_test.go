package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile_CSV(t *testing.T) {
	path := writeTemp(t, "statement.csv",
		"Date,Description,Debit,Credit\n"+
			"01/15/2024,CHECK 4412,\"1,250.00\",\n"+
			"01/16/2024,DEPOSIT,,500.25\n")

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Debit", "Credit"}, rows[0])
	assert.Equal(t, "1,250.00", rows[1][2])
	assert.Equal(t, "500.25", rows[2][3])
}

func TestReadFile_RaggedAndLazyQuotedCSV(t *testing.T) {
	// Real exports mix row widths and leave quotes unbalanced.
	path := writeTemp(t, "ragged.csv",
		"Acme Corp Statement\n"+
			"Date,Description,Amount\n"+
			"01/15/2024,PAYMENT \"ACH,100.00\n")

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 1)
	assert.Len(t, rows[1], 3)
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "ledger.pdf", "%PDF-1.4")

	_, err := ReadFile(path)
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
