package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

var (
	ingestType string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Upload and index files",
	Long: `Uploads each file, extracts its text, and stores it for retrieval.

Supported: PDF, DOCX, plain text, PNG and JPEG. Images are described by
the vision model. Uploading identical content again re-indexes the
existing file instead of creating a duplicate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "content type to use instead of detecting it")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

type ingestResult struct {
	File    string `json:"file"`
	AssetID string `json:"asset_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Chunks  int    `json:"chunks"`
	Reused  bool   `json:"reused"`
	Error   string `json:"error,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	user := currentUser()
	results := make([]ingestResult, 0, len(args))
	var errs []error

	for _, path := range args {
		res, err := ingestFile(cmd, user, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			res.Error = err.Error()
		}
		results = append(results, res)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
	} else {
		for i := range results {
			printIngestResult(cmd, &results[i])
		}
	}

	return errors.Join(errs...)
}

func ingestFile(cmd *cobra.Command, user, path string) (ingestResult, error) {
	res := ingestResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read file: %w", err)
	}

	name := filepath.Base(path)
	contentType := ingestType
	if contentType == "" {
		contentType = filesystem.DetectContentType(name, data)
	}

	up, err := assetService.Upload(cmd.Context(), driving.UploadRequest{
		UserID:      user,
		Filename:    name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return res, err
	}

	res.AssetID = up.Asset.ID
	res.Kind = up.Asset.Kind.String()
	res.Reused = up.Reused
	if up.Report != nil {
		res.Chunks = up.Report.Chunks
	}
	return res, nil
}

func printIngestResult(cmd *cobra.Command, r *ingestResult) {
	switch {
	case r.Error != "":
		cmd.Printf("✗ %s: %s\n", r.File, r.Error)
	case r.Reused:
		cmd.Printf("↻ %s (%s) re-indexed as %s: %d chunks\n", r.File, r.Kind, r.AssetID, r.Chunks)
	default:
		cmd.Printf("✓ %s (%s) uploaded as %s: %d chunks\n", r.File, r.Kind, r.AssetID, r.Chunks)
	}
}
