package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func TestKinds(t *testing.T) {
	assert.Equal(t, []domain.AssetKind{domain.AssetKindDOCX}, New().Kinds())
}

func TestExtract_Paragraphs(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document ` + wordNS + `>
<w:body>
<w:p><w:r><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> report</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Revenue grew 12%.</w:t></w:r></w:p>
</w:body>
</w:document>`

	text, err := New().Extract(context.Background(), createTestDOCX(t, docXML))
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report\n\nRevenue grew 12%.", text)
}

func TestExtract_NoDocumentPart(t *testing.T) {
	text, err := New().Extract(context.Background(), createTestDOCX(t, ""))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("plain bytes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MalformedXML(t *testing.T) {
	_, err := New().Extract(context.Background(), createTestDOCX(t, "<w:document><w:body>"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
