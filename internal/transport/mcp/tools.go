package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeSearchUnavailable = -32001 // Catalog could not be searched
)

// handleSearchCourses handles the search_courses tool invocation
func (s *Server) handleSearchCourses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(req)
	if err != nil {
		return nil, err
	}

	m, err := mode.Parse(getStringDefault(args, "search_mode", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_mode", map[string]interface{}{
			"param":   "search_mode",
			"allowed": []string{string(mode.Broad), string(mode.Honed)},
		})
	}

	r, err := request.New(
		getStringDefault(args, "query", ""),
		getStringList(args, "codes"),
		getStringList(args, "hub_units"),
		m,
	)
	if err != nil {
		return nil, domainError(err)
	}

	resp, err := s.search.Search(ctx, &r)
	if err != nil {
		s.logger.Warn("search_courses failed", zap.Error(err))
		return nil, domainError(err)
	}

	courses := make([]map[string]interface{}, len(resp.Entries))
	for i := range resp.Entries {
		courses[i] = courseToMap(&resp.Entries[i])
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"keywords": []string(resp.Keywords),
		"count":    len(courses),
		"courses":  courses,
	})), nil
}

// handleNormalizeQuery handles the normalize_query tool invocation
func (s *Server) handleNormalizeQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(req)
	if err != nil {
		return nil, err
	}

	raw, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}

	kw := s.search.Normalize(raw)
	keywords := []string(kw)
	if keywords == nil {
		keywords = []string{}
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"keywords": keywords,
		"query":    kw.String(),
	})), nil
}

// handleListVocabulary handles the list_vocabulary tool invocation
func (s *Server) handleListVocabulary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := s.search.Vocabulary()
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"codes":        v.Codes(),
		"hub_units":    v.HubUnits(),
		"search_modes": []string{string(mode.Broad), string(mode.Honed)},
	})), nil
}

// Helper functions

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// domainError maps domain sentinels to MCP errors without leaking internals.
func domainError(err error) error {
	var fe *domain.FieldError
	switch {
	case errors.As(err, &fe):
		return newMCPError(ErrorCodeInvalidParams, fe.Reason, map[string]interface{}{"param": fe.Field})
	case errors.Is(err, domain.ErrInvalidRequest):
		return newMCPError(ErrorCodeInvalidParams, "invalid request", nil)
	case errors.Is(err, domain.ErrSearchUnavailable):
		return newMCPError(ErrorCodeSearchUnavailable, domain.ErrSearchUnavailable.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, "internal error", nil)
	}
}

func arguments(req mcp.CallToolRequest) (map[string]interface{}, error) {
	if req.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

func courseToMap(e *course.Entry) map[string]interface{} {
	hubs := e.HubUnits()
	if hubs == nil {
		hubs = []string{}
	}
	m := map[string]interface{}{
		"title":       e.Title(),
		"description": e.Description(),
		"code":        e.Code(),
		"hub_units":   hubs,
	}
	if p := e.Prerequisites(); p != "" {
		m["prerequisites"] = p
	}
	if c := e.Credits(); c != nil {
		m["credits"] = *c
	}
	return m
}

func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}

func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return defaultValue
}

// getStringList accepts a JSON array of strings or a comma-joined string.
func getStringList(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return request.SplitList(v)
	default:
		return nil
	}
}
