package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/unowned-ai/rpager/pkg/insights"
	"github.com/unowned-ai/rpager/pkg/store"
)

// Numbers arrive as float64 and booleans sometimes as strings, so argument
// access goes through cast.

func stringArg(req mcp.CallToolRequest, name string) string {
	v, ok := req.Params.Arguments[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func intArg(req mcp.CallToolRequest, name string, def int) (int, error) {
	v, ok := req.Params.Arguments[name]
	if !ok || v == nil || v == "" {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be a number: %w", name, err)
	}
	return n, nil
}

func floatArg(req mcp.CallToolRequest, name string) (float64, bool, error) {
	v, ok := req.Params.Arguments[name]
	if !ok || v == nil || v == "" {
		return 0, false, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false, fmt.Errorf("'%s' must be a number: %w", name, err)
	}
	return f, true, nil
}

func boolArg(req mcp.CallToolRequest, name string) (bool, bool, error) {
	v, ok := req.Params.Arguments[name]
	if !ok || v == nil || v == "" {
		return false, false, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false, fmt.Errorf("'%s' must be true or false: %w", name, err)
	}
	return b, true, nil
}

// listArg splits a comma-separated string argument.
func listArg(req mcp.CallToolRequest, name string) []string {
	var out []string
	for _, p := range strings.Split(stringArg(req, name), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dayArg parses a YYYY-MM-DD or RFC3339 argument; ok is false when absent.
func dayArg(req mcp.CallToolRequest, name string, loc *time.Location) (time.Time, bool, error) {
	s := stringArg(req, name)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err := insights.ParseDay(s, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("'%s' must be YYYY-MM-DD: %w", name, err)
	}
	return t, true, nil
}

func errorResult(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

// failure turns a store error into a tool error, naming validation failures
// and missing records plainly.
func failure(action string, err error) (*mcp.CallToolResult, error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorResult("Invalid input: %v", verr)
	case errors.Is(err, store.ErrNotFound):
		return errorResult("%s: not found.", action)
	default:
		return errorResult("Failed to %s: %v", action, err)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return errorResult("Failed to serialize result to JSON: %v", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
