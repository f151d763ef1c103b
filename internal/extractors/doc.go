// Package extractors provides Extractor implementations that turn uploaded
// files into plain text, and a Registry that dispatches by asset kind.
//
// Images are not handled here: the ingestion pipeline sends them to a
// VisionService through a signed URL instead.
package extractors
