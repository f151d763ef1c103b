package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestCmd_RequiresArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest")
	assert.Error(t, err)
}

func TestIngestCmd_UploadsFiles(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	pdf := writeTempFile(t, "report.pdf", "%PDF-1.4")
	txt := writeTempFile(t, "notes.txt", "hello")

	out, err := execute("ingest", pdf, txt)

	require.NoError(t, err)
	require.Len(t, svc.assets.uploads, 2)
	assert.Equal(t, "report.pdf", svc.assets.uploads[0].Filename)
	assert.Equal(t, domain.ContentTypePDF, svc.assets.uploads[0].ContentType)
	assert.Equal(t, domain.ContentTypeText, svc.assets.uploads[1].ContentType)
	assert.Equal(t, []byte("hello"), svc.assets.uploads[1].Data)
	assert.Equal(t, domain.DefaultUserID, svc.assets.uploads[0].UserID)
	assert.Contains(t, out, "✓ "+pdf+" (pdf) uploaded as id-report.pdf: 2 chunks")
}

func TestIngestCmd_TypeOverrideAndUser(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "scan.bin", "raw")

	_, err := execute("ingest", "--user", "bob", "--type", "image/png", path)

	require.NoError(t, err)
	require.Len(t, svc.assets.uploads, 1)
	assert.Equal(t, "image/png", svc.assets.uploads[0].ContentType)
	assert.Equal(t, "bob", svc.assets.uploads[0].UserID)
}

func TestIngestCmd_Reused(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.assets.reused = true

	out, err := execute("ingest", writeTempFile(t, "a.txt", "x"))

	require.NoError(t, err)
	assert.Contains(t, out, "re-indexed as id-a.txt")
}

func TestIngestCmd_ContinuesAfterFailure(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.assets.uploadErr["empty.pdf"] = domain.ErrExtractionEmpty

	bad := writeTempFile(t, "empty.pdf", "%PDF")
	good := writeTempFile(t, "good.txt", "fine")
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, err := execute("ingest", bad, missing, good)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
	assert.Len(t, svc.assets.uploads, 2, "the missing file never reaches the service")
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "✗ "+missing)
	assert.Contains(t, out, "✓ "+good)
}

func TestIngestCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("ingest", "--json", writeTempFile(t, "a.txt", "x"))
	require.NoError(t, err)

	var results []ingestResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "id-a.txt", results[0].AssetID)
	assert.Equal(t, "txt", results[0].Kind)
	assert.Equal(t, 2, results[0].Chunks)
}

func TestIngestCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetServices(Services{})

	_, err := execute("ingest", writeTempFile(t, "a.txt", "x"))
	assert.EqualError(t, err, "asset service not configured")
}
