package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer registers the evaluation tools on a new MCP server.
func NewServer(service Service, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "eval-suite",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_suite",
		Description: "Run the registered test cases, optionally filtered by tags or ids, and return per-case scores, pass rates and flakiness",
	}, NewRunSuiteHandler(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_case",
		Description: "Evaluate a single registered test case once and return its verdict with every check result",
	}, NewEvaluateCaseHandler(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_cases",
		Description: "List the registered test cases with their tags",
	}, NewListCasesHandler(service))

	return server
}
