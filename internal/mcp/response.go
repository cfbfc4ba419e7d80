package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kpauljoseph/ankimcp/pkg/models"
)

// envelope is the shape every tool answer shares. Error flips on
// failure payloads; Message always says what happened in plain words.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// leechCardsResult answers get_leech_cards. CardIDs is populated for
// identifier-only responses, Cards for detailed ones.
type leechCardsResult struct {
	envelope
	Count           int                 `json:"count"`
	TotalLeechCards int                 `json:"totalLeechCards"`
	CardIDs         []int64             `json:"cardIds,omitempty"`
	Cards           []models.CardRecord `json:"cards,omitempty"`
}

// tagReviewedResult answers tag_reviewed_cards.
type tagReviewedResult struct {
	envelope
	Tag         string `json:"tag"`
	CardCount   int    `json:"cardCount"`
	TaggedNotes int    `json:"taggedNotes"`
}

func successResult(v interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText(marshalResponse(v))
}

func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	e := envelope{Error: true, Message: fmt.Sprintf(format, args...)}
	return mcp.NewToolResultError(marshalResponse(e))
}

func marshalResponse(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": true, "message": "response encoding failed: %v"}`, err)
	}
	return string(data)
}
