package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var assetsJSON bool

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Manage uploaded files",
	Long:  `List, inspect and delete the files you have uploaded.`,
	RunE:  runAssetsList,
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded files, newest first",
	RunE:  runAssetsList,
}

var assetsShowCmd = &cobra.Command{
	Use:   "show <asset-id>",
	Short: "Show details of an uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsShow,
}

var assetsDeleteCmd = &cobra.Command{
	Use:   "delete <asset-id>",
	Short: "Delete an uploaded file and everything indexed from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsDelete,
}

func init() {
	assetsCmd.PersistentFlags().BoolVar(&assetsJSON, "json", false, "output as JSON")
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsShowCmd)
	assetsCmd.AddCommand(assetsDeleteCmd)
	rootCmd.AddCommand(assetsCmd)
}

type assetInfo struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Kind        string `json:"kind"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	ContentHash string `json:"content_hash"`
	CreatedAt   string `json:"created_at"`
}

func toAssetInfo(a *domain.Asset) assetInfo {
	return assetInfo{
		ID:          a.ID,
		Filename:    a.Filename,
		Kind:        a.Kind.String(),
		ContentType: a.ContentType,
		Size:        a.Size,
		ContentHash: a.ContentHash,
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func runAssetsList(cmd *cobra.Command, _ []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	assets, err := assetService.List(cmd.Context(), currentUser())
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}

	if assetsJSON {
		infos := make([]assetInfo, len(assets))
		for i := range assets {
			infos[i] = toAssetInfo(&assets[i])
		}
		return printJSON(cmd, infos)
	}

	if len(assets) == 0 {
		cmd.Println("No files uploaded. Use 'sercha-rag ingest <file>' to add one.")
		return nil
	}

	cmd.Printf("%-36s  %-5s  %9s  %-16s  %s\n", "ID", "KIND", "SIZE", "UPLOADED", "FILENAME")
	for i := range assets {
		a := &assets[i]
		cmd.Printf("%-36s  %-5s  %9s  %-16s  %s\n",
			a.ID, a.Kind, list.FormatSize(a.Size), a.CreatedAt.Format("2006-01-02 15:04"), a.Filename)
	}
	return nil
}

func runAssetsShow(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	asset, err := assetService.Get(cmd.Context(), currentUser(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get asset: %w", err)
	}

	info := toAssetInfo(asset)
	if assetsJSON {
		return printJSON(cmd, info)
	}

	cmd.Printf("ID:           %s\n", info.ID)
	cmd.Printf("Filename:     %s\n", info.Filename)
	cmd.Printf("Kind:         %s\n", info.Kind)
	cmd.Printf("Content type: %s\n", info.ContentType)
	cmd.Printf("Size:         %s\n", list.FormatSize(info.Size))
	cmd.Printf("SHA-256:      %s\n", info.ContentHash)
	cmd.Printf("Uploaded:     %s\n", info.CreatedAt)
	return nil
}

func runAssetsDelete(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	removed, err := assetService.Delete(cmd.Context(), currentUser(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	if assetsJSON {
		return printJSON(cmd, map[string]any{"asset_id": args[0], "chunks_removed": removed})
	}
	cmd.Printf("Deleted %s (%d chunks removed)\n", args[0], removed)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
