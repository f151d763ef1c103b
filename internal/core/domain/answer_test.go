package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievedChunk_Filename(t *testing.T) {
	c := RetrievedChunk{Metadata: map[string]string{MetaFilename: "report.pdf", MetaType: "pdf"}}
	assert.Equal(t, "report.pdf", c.Filename())
	assert.Equal(t, AssetKindPDF, c.Kind())

	empty := RetrievedChunk{}
	assert.Equal(t, UnknownSource, empty.Filename())
	assert.Equal(t, AssetKind(""), empty.Kind())
}

func TestAnswer_Sources_DeduplicatesByFilename(t *testing.T) {
	a := &Answer{
		Chunks: []RetrievedChunk{
			{Metadata: map[string]string{MetaFilename: "a.pdf", MetaType: "pdf"}},
			{Metadata: map[string]string{MetaFilename: "b.png", MetaType: "image"}},
			{Metadata: map[string]string{MetaFilename: "a.pdf", MetaType: "pdf"}},
			{Metadata: nil},
		},
	}

	assert.Equal(t, []Source{
		{Filename: "a.pdf", Type: AssetKindPDF},
		{Filename: "b.png", Type: AssetKindImage},
		{Filename: UnknownSource, Type: ""},
	}, a.Sources())
}

func TestAnswer_Sources_Empty(t *testing.T) {
	a := &Answer{Text: "hello"}
	assert.Empty(t, a.Sources())
}
