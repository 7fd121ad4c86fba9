package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	rpager "github.com/unowned-ai/rpager/pkg"
	"github.com/unowned-ai/rpager/pkg/appstate"
	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/study"
)

type StudyMCPServer struct {
	mcpServer *server.MCPServer
	store     *study.Store
	state     *appstate.Manager
	log       logging.Logger
}

// NewStudyMCPServer builds an MCP server over an opened study store and
// registers every tool. The caller owns the store's database.
func NewStudyMCPServer(st *study.Store, state *appstate.Manager, log logging.Logger) *StudyMCPServer {
	if log == nil {
		log = logging.Nop()
	}
	s := server.NewMCPServer(
		"R-PAGER MCP Server",
		rpager.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	srv := &StudyMCPServer{
		mcpServer: s,
		store:     st,
		state:     state,
		log:       log.With("component", "mcp"),
	}
	srv.registerTools()
	return srv
}

func (s *StudyMCPServer) registerTools() {
	RegisterPingTool(s.mcpServer)

	RegisterAddEventTool(s.mcpServer, s.store)
	RegisterListEventsTool(s.mcpServer, s.store)
	RegisterDeleteEventTool(s.mcpServer, s.store)
	RegisterStressLevelTool(s.mcpServer, s.store)

	RegisterLogMoodTool(s.mcpServer, s.store)
	RegisterListMoodsTool(s.mcpServer, s.store)
	RegisterMoodAverageTool(s.mcpServer, s.store)

	RegisterListDecksTool(s.mcpServer, s.store)
	RegisterAddCardTool(s.mcpServer, s.store)
	RegisterListCardsTool(s.mcpServer, s.store)
	RegisterReviewCardTool(s.mcpServer, s.store)
	RegisterDeckStatsTool(s.mcpServer, s.store)

	RegisterAddJournalEntryTool(s.mcpServer, s.store)
	RegisterListJournalEntriesTool(s.mcpServer, s.store)

	RegisterListReferencesTool(s.mcpServer, s.store)
	RegisterSetReadingProgressTool(s.mcpServer, s.store)

	RegisterStudyProgressTool(s.mcpServer, s.store)
	RegisterLogStudyHoursTool(s.mcpServer, s.store)

	if s.state != nil {
		RegisterGetAppStateTool(s.mcpServer, s.state)
		RegisterSetCodeStatusTool(s.mcpServer, s.state)
	}
}

// Start runs the stdio event loop.
func (s *StudyMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *StudyMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
