package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// buildPDF writes a minimal PDF with one page per entry in pages. Each page
// shows its string with the standard Helvetica font; an empty string gives
// a page with an empty content stream.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: pages, 3: font, then (page, content) pairs.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		contentID := 5 + 2*i
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentID))

		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []domain.AssetKind{domain.AssetKindPDF}, New().Kinds())
}

func TestExtract_Pages(t *testing.T) {
	data := buildPDF([]string{"First page text", "", "Third page text"})

	text, err := New().Extract(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, text, "First page text")
	assert.Contains(t, text, "Third page text")
	assert.Less(t, strings.Index(text, "First"), strings.Index(text, "Third"))
	assert.GreaterOrEqual(t, strings.Count(text, "\n"), 2, "three pages are joined by newlines")
}

func TestExtract_EmptyPagesOnly(t *testing.T) {
	text, err := New().Extract(context.Background(), buildPDF([]string{"", ""}))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
}

func TestExtract_NotAPDF(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("definitely not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, buildPDF([]string{"text"}))
	assert.ErrorIs(t, err, context.Canceled)
}
