package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/ops"
	"github.com/kornelski/trapmail/internal/store"
)

// fileNameRe guards mail_fetch against paths that reach outside the
// store root.
var fileNameRe = regexp.MustCompile(`^trapmail_\d+_\d+_\d+\.json$`)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	st *store.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{st: st}
}

// FetchRequest represents the arguments for mail_fetch.
type FetchRequest struct {
	FileName string `json:"file_name"`
}

// fetchResult is the mail_fetch payload: the decoded record plus its
// on-disk location.
type fetchResult struct {
	FileName  string   `json:"file_name"`
	Path      string   `json:"path"`
	Timestamp uint64   `json:"timestamp_us"`
	PID       int      `json:"pid"`
	PPID      int      `json:"ppid"`
	Addresses []string `json:"addresses"`
	RawBody   []byte   `json:"raw_body"`
}

// HandleList handles the mail_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.List(h.st)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the mail_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.FileName == "" {
		return errorResult(errors.NewInvalidRequest("file_name is required")), nil
	}
	if !fileNameRe.MatchString(input.FileName) {
		return errorResult(errors.NewInvalidRequest("file_name is not a canonical record name")), nil
	}

	path := filepath.Join(h.st.Root(), input.FileName)
	m, err := ops.Dump(path)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(fetchResult{
		FileName:  input.FileName,
		Path:      path,
		Timestamp: m.TimestampMicros,
		PID:       m.PID,
		PPID:      m.PPID,
		Addresses: m.Options.Addresses,
		RawBody:   m.RawBody,
	})
}

// HandlePurge handles the mail_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Purge(h.st)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// errorResult creates an MCP error result carrying the taxonomy code.
func errorResult(err error) *mcp.CallToolResult {
	errorObj := map[string]any{
		"code":    string(errors.ErrInvalidRequest),
		"message": err.Error(),
	}
	var te *errors.TrapError
	if stderrors.As(err, &te) {
		errorObj["code"] = string(te.Code)
		errorObj["message"] = te.Message
		if te.Err != nil {
			errorObj["cause"] = te.Err.Error()
		}
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
