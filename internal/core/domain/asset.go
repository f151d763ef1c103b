package domain

import (
	"strings"
	"time"
)

// AssetKind is the declared content kind of an uploaded asset.
type AssetKind string

// Supported asset kinds.
const (
	AssetKindPDF   AssetKind = "pdf"
	AssetKindText  AssetKind = "txt"
	AssetKindDOCX  AssetKind = "docx"
	AssetKindImage AssetKind = "image"
)

// IsValid returns true if the kind is one of the supported kinds.
func (k AssetKind) IsValid() bool {
	switch k {
	case AssetKindPDF, AssetKindText, AssetKindDOCX, AssetKindImage:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AssetKind) String() string {
	return string(k)
}

// Content types accepted for upload.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
)

var allowedContentTypes = map[string]AssetKind{
	ContentTypePDF:  AssetKindPDF,
	ContentTypeText: AssetKindText,
	ContentTypeDOCX: AssetKindDOCX,
	ContentTypePNG:  AssetKindImage,
	ContentTypeJPEG: AssetKindImage,
}

// KindForContentType maps an upload content type to its asset kind.
// Parameters such as "; charset=utf-8" are ignored.
// Returns false when the content type is not accepted.
func KindForContentType(contentType string) (AssetKind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	kind, ok := allowedContentTypes[ct]
	return kind, ok
}

// Asset is an uploaded file owned by a user.
// Assets are immutable after creation; deleting one deletes every chunk
// derived from it.
type Asset struct {
	// ID is the unique identifier for the asset.
	ID string

	// UserID identifies the owning user.
	UserID string

	// Filename is the original file name as uploaded.
	Filename string

	// Kind is the declared content kind.
	Kind AssetKind

	// ContentType is the MIME type supplied at upload.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	// StorageKey is the opaque object-store locator.
	StorageKey string

	// ContentHash is the hex SHA-256 of the file bytes.
	// Re-uploading identical content for the same user reuses the asset.
	ContentHash string

	// CreatedAt is when the asset was uploaded.
	CreatedAt time.Time
}
