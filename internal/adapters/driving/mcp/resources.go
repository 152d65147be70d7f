package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

// uriScheme is the URI scheme of vault resources.
const uriScheme = "iiif-vault://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "summary",
		Name:        "summary",
		Description: "Entity counts per type",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "requests",
		Name:        "requests",
		Description: "Every tracked resource request and its loading state",
		MIMEType:    "application/json",
	}, s.handleRequestsResource)
}

func (s *Server) handleSummaryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, summarise(s.ports.Vault.State()))
}

func (s *Server) handleRequestsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state := s.ports.Vault.State()
	records := make([]domain.RequestRecord, 0, len(state.Requests))
	for _, record := range state.Requests {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].RequestURI < records[j].RequestURI })
	return jsonResource(req.Params.URI, records)
}

// summary is the body of the summary resource.
type summary struct {
	Total    int            `json:"total"`
	Types    map[string]int `json:"types"`
	Requests int            `json:"requests"`
}

func summarise(state *domain.State) summary {
	out := summary{Types: make(map[string]int)}
	for typ, partition := range state.Entities {
		if len(partition) == 0 {
			continue
		}
		out.Types[typ.String()] = len(partition)
		out.Total += len(partition)
	}
	out.Requests = len(state.Requests)
	return out
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
