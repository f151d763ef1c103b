package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for sercha-rag resources.
	uriScheme = "sercha-rag://"

	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "assets",
		Name:        "assets",
		Description: "The user's uploaded files",
		MIMEType:    "application/json",
	}, s.handleAssetsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "assets/{assetId}",
		Name:        "asset",
		Description: "Details of one uploaded file",
		MIMEType:    "application/json",
	}, s.handleAssetResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent questions and answers",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleAssetsResource returns the user's assets.
func (s *Server) handleAssetsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Assets == nil {
		return jsonResult(req.Params.URI, []AssetOutput{})
	}

	assets, err := s.ports.Assets.List(ctx, s.ports.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	infos := make([]AssetOutput, len(assets))
	for i := range assets {
		infos[i] = toAssetOutput(&assets[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleAssetResource returns one asset.
func (s *Server) handleAssetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Assets == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	assetID := extractAssetID(req.Params.URI)
	if assetID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	asset, err := s.ports.Assets.Get(ctx, s.ports.UserID, assetID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}
	return jsonResult(req.Params.URI, toAssetOutput(asset))
}

// handleHistoryResource returns the most recent chat exchanges.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Chat.History(ctx, s.ports.UserID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	type entryInfo struct {
		Question string          `json:"question"`
		Answer   string          `json:"answer"`
		Sources  []domain.Source `json:"sources"`
		Grounded bool            `json:"grounded"`
		AskedAt  string          `json:"asked_at"`
	}

	infos := make([]entryInfo, len(entries))
	for i := range entries {
		infos[i] = entryInfo{
			Question: entries[i].Question,
			Answer:   entries[i].Answer,
			Sources:  entries[i].Sources,
			Grounded: entries[i].Grounded,
			AskedAt:  entries[i].CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAssetID extracts the asset ID from a URI like sercha-rag://assets/{assetId}.
func extractAssetID(uri string) string {
	const prefix = uriScheme + "assets/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
