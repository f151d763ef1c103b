package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		kind        AssetKind
		ok          bool
	}{
		{"application/pdf", AssetKindPDF, true},
		{"text/plain", AssetKindText, true},
		{"text/plain; charset=utf-8", AssetKindText, true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", AssetKindDOCX, true},
		{"image/png", AssetKindImage, true},
		{"IMAGE/JPEG", AssetKindImage, true},
		{"image/gif", "", false},
		{"application/msword", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			kind, ok := KindForContentType(tt.contentType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestAssetKind_IsValid(t *testing.T) {
	for _, k := range []AssetKind{AssetKindPDF, AssetKindText, AssetKindDOCX, AssetKindImage} {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, AssetKind("xlsx").IsValid())
	assert.False(t, AssetKind("").IsValid())
}

func TestIngestState_IsTerminal(t *testing.T) {
	assert.True(t, IngestStateDone.IsTerminal())
	assert.True(t, IngestStateAborted.IsTerminal())
	assert.False(t, IngestStateEmbedding.IsTerminal())

	var nilReport *IngestReport
	assert.False(t, nilReport.Aborted())
	assert.True(t, (&IngestReport{State: IngestStateAborted}).Aborted())
}
