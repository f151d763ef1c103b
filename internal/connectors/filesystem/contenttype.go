package filesystem

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// extensionTypes covers extensions whose system MIME registration is
// missing or differs between platforms.
var extensionTypes = map[string]string{
	".pdf":      domain.ContentTypePDF,
	".txt":      domain.ContentTypeText,
	".text":     domain.ContentTypeText,
	".md":       domain.ContentTypeText,
	".markdown": domain.ContentTypeText,
	".log":      domain.ContentTypeText,
	".csv":      domain.ContentTypeText,
	".docx":     domain.ContentTypeDOCX,
	".png":      domain.ContentTypePNG,
	".jpg":      domain.ContentTypeJPEG,
	".jpeg":     domain.ContentTypeJPEG,
}

// DetectContentType returns the MIME type of a file. Known extensions win;
// otherwise the content is sniffed, which also tells OOXML documents apart
// from plain zip archives. The system extension table is the last resort
// when there is no content. Parameters such as charset are stripped.
func DetectContentType(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	if len(data) > 0 {
		return stripParams(mimetype.Detect(data).String())
	}
	if ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return stripParams(ct)
		}
	}
	return "application/octet-stream"
}

func stripParams(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
