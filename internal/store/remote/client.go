// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package remote is a store.GraphStore that talks to a graph store served
// over HTTP by internal/server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

const backendName = "remote"

// Compile-time interface check.
var _ store.GraphStore = (*GraphStore)(nil)

// GraphStore forwards every call to a remote server.
type GraphStore struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a GraphStore.
type Option func(*GraphStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GraphStore) { g.client = c }
}

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(g *GraphStore) { g.token = token }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(g *GraphStore) { g.client.Timeout = d }
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*GraphStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, gcerr.New(gcerr.CodeStoreInvalidInput, fmt.Sprintf("invalid remote endpoint %q", baseURL),
			gcerr.FieldBackend(backendName))
	}

	g := &GraphStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close is a no-op; the remote side owns the store.
func (g *GraphStore) Close() error { return nil }

func (g *GraphStore) CreateNode(ctx context.Context, typeName string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"type": typeName}
	if err := g.do(ctx, http.MethodPost, "/api/v1/nodes", nil, body, &out, ""); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *GraphStore) CreateEdge(ctx context.Context, typeName, end1, end2 string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"type": typeName, "end1": end1, "end2": end2}
	if err := g.do(ctx, http.MethodPost, "/api/v1/edges", nil, body, &out, ""); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *GraphStore) GetNode(ctx context.Context, id string) (*store.Node, error) {
	var n store.Node
	if err := g.do(ctx, http.MethodGet, nodePath(id), nil, nil, &n, ""); err != nil {
		return nil, err
	}
	return &n, nil
}

func (g *GraphStore) Neighborhood(ctx context.Context, id string, depth int) (*store.Graph, error) {
	q := url.Values{"depth": {strconv.Itoa(depth)}}
	var out store.Graph
	if err := g.do(ctx, http.MethodGet, nodePath(id)+"/neighborhood", q, nil, &out, store.FuncNeighborhood); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GraphStore) RelatedNodes(ctx context.Context, id string) ([]*store.Node, error) {
	var out struct {
		Nodes []*store.Node `json:"nodes"`
	}
	if err := g.do(ctx, http.MethodGet, nodePath(id)+"/related", nil, nil, &out, store.FuncRelatedNodes); err != nil {
		return nil, err
	}
	return out.Nodes, nil
}

func (g *GraphStore) LinkingPath(ctx context.Context, start, end string) (*store.Graph, error) {
	q := url.Values{"start": {start}, "end": {end}}
	var out store.Graph
	if err := g.do(ctx, http.MethodGet, "/api/v1/paths", q, nil, &out, store.FuncLinkingPath); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GraphStore) DeleteNode(ctx context.Context, typeName, id string) error {
	q := url.Values{"type": {typeName}}
	return g.do(ctx, http.MethodDelete, nodePath(id), q, nil, nil, store.FuncDeleteNode)
}

func (g *GraphStore) PurgeNode(ctx context.Context, typeName, id string) error {
	q := url.Values{"type": {typeName}}
	return g.do(ctx, http.MethodDelete, nodePath(id)+"/purge", q, nil, nil, "")
}

func nodePath(id string) string {
	return "/api/v1/nodes/" + url.PathEscape(id)
}

// do sends one request and decodes a 2xx body into out. fn names the
// optional function behind the call so a 501 becomes an unsupported error.
func (g *GraphStore) do(ctx context.Context, method, path string, query url.Values, in, out any, fn store.Function) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return gcerr.Errorf(gcerr.CodeStoreInvalidInput, "encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return gcerr.Errorf(gcerr.CodeStoreInvalidInput, "building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return gcerr.Errorf(gcerr.CodeStoreRemoteFailure, "%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return g.statusError(resp, method, path, fn)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return gcerr.Errorf(gcerr.CodeStoreRemoteFailure, "decoding %s %s: %w", method, path, err)
	}
	return nil
}

func (g *GraphStore) statusError(resp *http.Response, method, path string, fn store.Function) error {
	var problem huma.ErrorModel
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &problem); err != nil || problem.Detail == "" {
		problem.Detail = strings.TrimSpace(string(data))
	}

	g.logger.Debug("remote graph store error",
		"method", method, "path", path, "status", resp.StatusCode, "detail", problem.Detail)

	switch resp.StatusCode {
	case http.StatusNotImplemented:
		if fn == "" {
			fn = store.Function(method + " " + path)
		}
		return store.Unsupported(fn, backendName)
	case http.StatusNotFound:
		return gcerr.New(gcerr.CodeStoreNodeNotFound, problem.Detail, gcerr.FieldBackend(backendName))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return gcerr.New(gcerr.CodeStoreInvalidInput, problem.Detail, gcerr.FieldBackend(backendName))
	default:
		return gcerr.New(gcerr.CodeStoreRemoteFailure,
			fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, problem.Detail),
			gcerr.FieldBackend(backendName))
	}
}
