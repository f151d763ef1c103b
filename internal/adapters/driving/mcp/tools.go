package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// errAssetsUnavailable is returned by asset tools when no asset service is
// wired.
var errAssetsUnavailable = errors.New("asset management is not available")

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string   `json:"question" jsonschema:"the question to answer from the uploaded files"`
	AssetIDs []string `json:"asset_ids,omitempty" jsonschema:"restrict the answer to these asset IDs"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string          `json:"answer"`
	Sources  []domain.Source `json:"sources"`
	Grounded bool            `json:"grounded"`
}

// ListAssetsInput is the input schema for the list_assets tool.
type ListAssetsInput struct{}

// ListAssetsOutput is the output schema for the list_assets tool.
type ListAssetsOutput struct {
	Assets []AssetOutput `json:"assets"`
	Count  int           `json:"count"`
}

// AssetOutput represents one uploaded asset.
type AssetOutput struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// DeleteAssetInput is the input schema for the delete_asset tool.
type DeleteAssetInput struct {
	AssetID string `json:"asset_id" jsonschema:"ID of the asset to delete"`
}

// DeleteAssetOutput is the output schema for the delete_asset tool.
type DeleteAssetOutput struct {
	AssetID       string `json:"asset_id"`
	ChunksRemoved int    `json:"chunks_removed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the user's uploaded documents and images",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_assets",
		Description: "List the user's uploaded files, newest first",
	}, s.handleListAssets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_asset",
		Description: "Delete an uploaded file and every chunk derived from it",
	}, s.handleDeleteAsset)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	reply, err := s.ports.Chat.Ask(ctx, s.ports.UserID, input.Question, input.AssetIDs)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := reply.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	return nil, AskOutput{
		Answer:   reply.Answer,
		Sources:  sources,
		Grounded: reply.Grounded,
	}, nil
}

func (s *Server) handleListAssets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListAssetsInput,
) (*mcp.CallToolResult, ListAssetsOutput, error) {
	if s.ports.Assets == nil {
		return nil, ListAssetsOutput{}, errAssetsUnavailable
	}

	assets, err := s.ports.Assets.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, ListAssetsOutput{}, err
	}

	output := ListAssetsOutput{
		Assets: make([]AssetOutput, len(assets)),
		Count:  len(assets),
	}
	for i := range assets {
		output.Assets[i] = toAssetOutput(&assets[i])
	}
	return nil, output, nil
}

func (s *Server) handleDeleteAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteAssetInput,
) (*mcp.CallToolResult, DeleteAssetOutput, error) {
	if s.ports.Assets == nil {
		return nil, DeleteAssetOutput{}, errAssetsUnavailable
	}
	if input.AssetID == "" {
		return nil, DeleteAssetOutput{}, errors.New("asset_id is required")
	}

	removed, err := s.ports.Assets.Delete(ctx, s.ports.UserID, input.AssetID)
	if err != nil {
		return nil, DeleteAssetOutput{}, err
	}
	return nil, DeleteAssetOutput{AssetID: input.AssetID, ChunksRemoved: removed}, nil
}

func toAssetOutput(a *domain.Asset) AssetOutput {
	return AssetOutput{
		ID:        a.ID,
		Filename:  a.Filename,
		Type:      string(a.Kind),
		Size:      a.Size,
		CreatedAt: a.CreatedAt,
	}
}
