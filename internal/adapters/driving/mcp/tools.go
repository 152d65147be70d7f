package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

// LoadInput is the input schema for the load tool.
type LoadInput struct {
	URI    string `json:"uri" jsonschema:"the URI of a IIIF manifest, collection or other resource"`
	PartOf string `json:"part_of,omitempty" jsonschema:"parent context the resource is loaded under"`
}

// EntityOutput carries one resolved entity.
type EntityOutput struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Unresolved bool           `json:"unresolved,omitempty"`
	Entity     map[string]any `json:"entity"`
}

// GetInput is the input schema for the get tool.
type GetInput struct {
	ID       string `json:"id" jsonschema:"the entity id"`
	Type     string `json:"type,omitempty" jsonschema:"entity type used when the id is not yet known"`
	Parent   string `json:"parent,omitempty" jsonschema:"parent context used to frame the entity"`
	Preserve bool   `json:"preserve,omitempty" jsonschema:"return specific-resource wrappers instead of their source"`
}

// PageInput is the input schema for the next_page tool.
type PageInput struct {
	ID string `json:"id" jsonschema:"the id of a paged collection"`
}

// PageOutput reports pagination progress.
type PageOutput struct {
	ID            string `json:"id"`
	CurrentPage   string `json:"current_page,omitempty"`
	Next          string `json:"next,omitempty"`
	Pages         int    `json:"pages"`
	LoadedItems   int    `json:"loaded_items"`
	TotalItems    int    `json:"total_items"`
	IsFullyLoaded bool   `json:"is_fully_loaded"`
	Error         string `json:"error,omitempty"`
}

// SnapshotInput is the input schema for the snapshot tool.
type SnapshotInput struct {
	Name string `json:"name" jsonschema:"the snapshot name"`
}

// SnapshotOutput describes a saved snapshot.
type SnapshotOutput struct {
	Name     string `json:"name"`
	Hash     string `json:"hash,omitempty"`
	Entities int    `json:"entities"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load",
		Description: "Fetch a IIIF resource and import it into the vault",
	}, s.handleLoad)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get",
		Description: "Resolve an entity from the vault by id",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "next_page",
		Description: "Load the next page of a paged collection",
	}, s.handleNextPage)

	if s.ports.Snapshot != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "snapshot",
			Description: "Save the vault state under a name",
		}, s.handleSnapshot)
	}
}

func (s *Server) handleLoad(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, EntityOutput, error) {
	if input.URI == "" {
		return nil, EntityOutput{}, fmt.Errorf("%w: uri is required", domain.ErrInvalidInput)
	}

	entity, err := s.ports.Vault.Load(ctx, input.URI, driving.LoadOptions{PartOf: input.PartOf})
	if err != nil {
		return nil, EntityOutput{}, err
	}

	output, err := toEntityOutput(entity)
	return nil, output, err
}

func (s *Server) handleGet(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, EntityOutput, error) {
	if input.ID == "" {
		return nil, EntityOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}

	opts := driving.GetOptions{
		Parent:                    input.Parent,
		PreserveSpecificResources: input.Preserve,
	}
	if input.Type != "" {
		opts.Type = domain.Partition(input.Type)
	}

	entity := s.ports.Vault.GetByID(input.ID, opts)
	if entity == nil {
		return nil, EntityOutput{}, fmt.Errorf("%w: %s", domain.ErrNotFound, input.ID)
	}

	output, err := toEntityOutput(entity)
	return nil, output, err
}

func (s *Server) handleNextPage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PageInput,
) (*mcp.CallToolResult, PageOutput, error) {
	base := s.ports.Vault.GetByID(input.ID, driving.GetOptions{})
	if base == nil {
		return nil, PageOutput{}, fmt.Errorf("%w: %s", domain.ErrNotFound, input.ID)
	}

	state, _ := s.ports.Vault.LoadNextPage(ctx, base.Ref())
	if state == nil {
		return nil, PageOutput{}, fmt.Errorf("%w: %s is not paged", domain.ErrInvalidInput, input.ID)
	}

	return nil, PageOutput{
		ID:            base.ID,
		CurrentPage:   state.CurrentPage,
		Next:          state.Next,
		Pages:         len(state.Pages),
		LoadedItems:   state.LoadedItems(),
		TotalItems:    state.TotalItems,
		IsFullyLoaded: state.IsFullyLoaded,
		Error:         state.Error,
	}, nil
}

func (s *Server) handleSnapshot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SnapshotInput,
) (*mcp.CallToolResult, SnapshotOutput, error) {
	snapshot, err := s.ports.Snapshot.Save(ctx, input.Name)
	if err != nil {
		return nil, SnapshotOutput{}, err
	}
	return nil, SnapshotOutput{
		Name:     snapshot.Name,
		Hash:     snapshot.Hash,
		Entities: snapshot.State.Count(),
	}, nil
}

// toEntityOutput flattens an entity into its wire shape.
func toEntityOutput(entity *domain.Entity) (EntityOutput, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return EntityOutput{}, fmt.Errorf("marshalling entity: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return EntityOutput{}, fmt.Errorf("unmarshalling entity: %w", err)
	}
	return EntityOutput{
		ID:         entity.ID,
		Type:       entity.DeclaredType(),
		Unresolved: entity.Unresolved,
		Entity:     fields,
	}, nil
}
