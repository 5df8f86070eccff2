// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

func (s *Server) registerRoutes() {
	// Node endpoints
	huma.Register(s.api, huma.Operation{
		OperationID:   "create-node",
		Method:        http.MethodPost,
		Path:          "/api/v1/nodes",
		Summary:       "Create a node",
		Tags:          []string{"nodes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNode)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-node",
		Method:      http.MethodGet,
		Path:        "/api/v1/nodes/{id}",
		Summary:     "Get a node, including soft-deleted ones",
		Tags:        []string{"nodes"},
	}, s.handleGetNode)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-node",
		Method:        http.MethodDelete,
		Path:          "/api/v1/nodes/{id}",
		Summary:       "Soft-delete a node",
		Tags:          []string{"nodes"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNode)

	huma.Register(s.api, huma.Operation{
		OperationID:   "purge-node",
		Method:        http.MethodDelete,
		Path:          "/api/v1/nodes/{id}/purge",
		Summary:       "Remove a node and its edges",
		Tags:          []string{"nodes"},
		DefaultStatus: http.StatusNoContent,
	}, s.handlePurgeNode)

	// Edge endpoints
	huma.Register(s.api, huma.Operation{
		OperationID:   "create-edge",
		Method:        http.MethodPost,
		Path:          "/api/v1/edges",
		Summary:       "Create an edge",
		Tags:          []string{"edges"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateEdge)

	// Query endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "neighborhood",
		Method:      http.MethodGet,
		Path:        "/api/v1/nodes/{id}/neighborhood",
		Summary:     "Nodes and edges within a number of hops",
		Tags:        []string{"queries"},
	}, s.handleNeighborhood)

	huma.Register(s.api, huma.Operation{
		OperationID: "related-nodes",
		Method:      http.MethodGet,
		Path:        "/api/v1/nodes/{id}/related",
		Summary:     "Every node connected to a node",
		Tags:        []string{"queries"},
	}, s.handleRelatedNodes)

	huma.Register(s.api, huma.Operation{
		OperationID: "linking-path",
		Method:      http.MethodGet,
		Path:        "/api/v1/paths",
		Summary:     "Nodes and edges on the paths between two nodes",
		Tags:        []string{"queries"},
	}, s.handleLinkingPath)
}

// --- Request/Response types for huma ---

type nodeIDInput struct {
	ID string `path:"id"`
}

type typedNodeInput struct {
	ID   string `path:"id"`
	Type string `query:"type" doc:"Expected node type; empty matches any"`
}

type createNodeInput struct {
	Body struct {
		Type string `json:"type" doc:"Node type name"`
	}
}

type createdOutput struct {
	Body struct {
		ID string `json:"id"`
	}
}

type nodeOutput struct {
	Body *store.Node
}

type createEdgeInput struct {
	Body struct {
		Type string `json:"type" doc:"Edge type name"`
		End1 string `json:"end1" doc:"Node at end 1"`
		End2 string `json:"end2" doc:"Node at end 2"`
	}
}

type neighborhoodInput struct {
	ID    string `path:"id"`
	Depth int    `query:"depth" doc:"Maximum hops from the origin"`
}

type graphOutput struct {
	Body *store.Graph
}

type relatedOutput struct {
	Body struct {
		Nodes []*store.Node `json:"nodes"`
	}
}

type linkingPathInput struct {
	Start string `query:"start" required:"true"`
	End   string `query:"end" required:"true"`
}

// --- Handlers ---

func (s *Server) handleCreateNode(ctx context.Context, input *createNodeInput) (*createdOutput, error) {
	id, err := s.store.CreateNode(ctx, input.Body.Type)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &createdOutput{}
	out.Body.ID = id
	return out, nil
}

func (s *Server) handleGetNode(ctx context.Context, input *nodeIDInput) (*nodeOutput, error) {
	n, err := s.store.GetNode(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &nodeOutput{Body: n}, nil
}

func (s *Server) handleDeleteNode(ctx context.Context, input *typedNodeInput) (*struct{}, error) {
	if err := s.store.DeleteNode(ctx, input.Type, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

func (s *Server) handlePurgeNode(ctx context.Context, input *typedNodeInput) (*struct{}, error) {
	if err := s.store.PurgeNode(ctx, input.Type, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

func (s *Server) handleCreateEdge(ctx context.Context, input *createEdgeInput) (*createdOutput, error) {
	id, err := s.store.CreateEdge(ctx, input.Body.Type, input.Body.End1, input.Body.End2)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &createdOutput{}
	out.Body.ID = id
	return out, nil
}

func (s *Server) handleNeighborhood(ctx context.Context, input *neighborhoodInput) (*graphOutput, error) {
	g, err := s.store.Neighborhood(ctx, input.ID, input.Depth)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &graphOutput{Body: g}, nil
}

func (s *Server) handleRelatedNodes(ctx context.Context, input *nodeIDInput) (*relatedOutput, error) {
	nodes, err := s.store.RelatedNodes(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &relatedOutput{}
	out.Body.Nodes = nodes
	return out, nil
}

func (s *Server) handleLinkingPath(ctx context.Context, input *linkingPathInput) (*graphOutput, error) {
	g, err := s.store.LinkingPath(ctx, input.Start, input.End)
	if err != nil {
		return nil, toHumaError(err)
	}
	if g == nil {
		g = &store.Graph{}
	}
	return &graphOutput{Body: g}, nil
}

// toHumaError maps a store error onto an HTTP problem response. Internal
// failures are logged and their detail withheld.
func toHumaError(err error) error {
	status := gcerr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		slog.Error("graph store request failed", "error", err, "code", gcerr.CodeOf(err))
		return huma.NewError(status, "internal server error")
	}
	return huma.NewError(status, err.Error())
}
