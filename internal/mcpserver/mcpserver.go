package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
)

// Server wraps the MCP server and registers the proband tools.
type Server struct {
	server *mcp.Server
	svc    *pipeline.Service
}

// NewServer creates a new MCP server with all proband tools registered.
// A nil service is replaced by one built from the default configuration.
func NewServer(version string, svc *pipeline.Service) *Server {
	if version == "" {
		version = "dev"
	}
	if svc == nil {
		svc = pipeline.New(pipeline.WithVersion(version))
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "proband",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, svc: svc}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_subjects",
		Description: describeListSubjects(),
	}, s.handleListSubjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_subject",
		Description: describeCompareSubject(),
	}, s.handleCompareSubject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "population_stats",
		Description: describePopulationStats(),
	}, s.handlePopulationStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "subject_briefing",
		Description: describeSubjectBriefing(),
	}, s.handleSubjectBriefing)

	// Archive
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_snapshots",
		Description: describeListSnapshots(),
	}, s.handleListSnapshots)
}
