package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// EvaluateCaseInput is the MCP tool input schema (matches the HTTP path parameter).
type EvaluateCaseInput struct {
	CaseID string `json:"case_id" jsonschema:"identifier of a registered test case"`
}

// NewEvaluateCaseHandler returns a tool handler that evaluates one case.
// Pass the returned function to mcp.AddTool.
func NewEvaluateCaseHandler(service Service) func(context.Context, *mcp.CallToolRequest, EvaluateCaseInput) (*mcp.CallToolResult, models.CaseVerdict, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateCaseInput) (*mcp.CallToolResult, models.CaseVerdict, error) {
		return EvaluateCase(ctx, service, req, input)
	}
}

// EvaluateCase runs the case once and returns its verdict.
func EvaluateCase(
	ctx context.Context,
	service Service,
	req *mcp.CallToolRequest,
	input EvaluateCaseInput,
) (*mcp.CallToolResult, models.CaseVerdict, error) {
	verdict, err := service.EvaluateCase(ctx, input.CaseID)
	if err != nil {
		return nil, models.CaseVerdict{}, err
	}
	return nil, verdict, nil
}
