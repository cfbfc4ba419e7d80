// Package mcp exposes the leech review workflow as MCP tools over
// stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kpauljoseph/ankimcp/internal/anki"
	"github.com/kpauljoseph/ankimcp/internal/cards"
	"github.com/kpauljoseph/ankimcp/pkg/logger"
	"github.com/kpauljoseph/ankimcp/pkg/version"
)

const serverInstructions = "Bridge to a locally running Anki via the AnkiConnect add-on. " +
	"Use get_leech_cards to fetch the cards Anki has flagged as leeches " +
	"(repeatedly forgotten during review), then discuss them with the user. " +
	"After a review session, call tag_reviewed_cards with the card ids that " +
	"were covered so their notes carry a dated review tag."

// Server wires the tool handlers to their collaborators and serves them
// over stdio.
type Server struct {
	client   anki.Client
	hydrator *cards.Hydrator
	sampler  *cards.Sampler
	log      *logger.Logger
	mcp      *server.MCPServer
}

// NewServer builds a Server around an AnkiConnect client and the
// assembly and sampling collaborators that post-process its results.
func NewServer(client anki.Client, hydrator *cards.Hydrator, sampler *cards.Sampler, log *logger.Logger) *Server {
	s := &Server{
		client:   client,
		hydrator: hydrator,
		sampler:  sampler,
		log:      log,
	}
	s.mcp = server.NewMCPServer(
		"ankimcp",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)
	s.registerTools()
	return s
}

// ServeStdio serves MCP frames on stdin and stdout until the stream
// closes or the process is interrupted. Protocol-level errors are
// reported through this server's logger, never stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp, server.WithErrorLogger(s.log.Logger))
}
