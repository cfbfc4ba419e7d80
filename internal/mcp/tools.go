package mcp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kpauljoseph/ankimcp/internal/anki"
	"github.com/kpauljoseph/ankimcp/internal/cards"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(getLeechCardsTool(), s.handleGetLeechCards)
	s.mcp.AddTool(tagReviewedCardsTool(), s.handleTagReviewedCards)
}

// --- Tool definitions ---

func getLeechCardsTool() mcp.Tool {
	return mcp.NewTool("get_leech_cards",
		mcp.WithDescription("Get the cards Anki has flagged as leeches (cards failed so often that "+
			"review is not sticking). Returns full card records including note fields and "+
			"review statistics."),
		mcp.WithBoolean("detailed", mcp.Description("Include full card records. When false, only "+
			"card identifiers and counts are returned. Defaults to true.")),
		mcp.WithNumber("count", mcp.Description("Randomly sample this many cards instead of "+
			"returning all of them. Must be a positive integer. Omit to return every leech card.")),
	)
}

func tagReviewedCardsTool() mcp.Tool {
	return mcp.NewTool("tag_reviewed_cards",
		mcp.WithDescription("Mark cards as covered in a review session by adding a dated tag "+
			"(prefix_YYYYMMDD) to their underlying notes."),
		mcp.WithArray("card_ids", mcp.Required(),
			mcp.Description("Identifiers of the cards whose notes should be tagged."),
			mcp.Items(map[string]interface{}{"type": "number"})),
		mcp.WithString("custom_tag_prefix", mcp.Description("Tag prefix to use instead of "+
			"\"reviewed\".")),
	)
}

// --- Tool handlers ---

func (s *Server) handleGetLeechCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailed := request.GetBool("detailed", true)

	count := 0
	if raw, ok := request.GetArguments()["count"]; ok {
		n, err := intArg(raw)
		if err != nil || n <= 0 {
			return errorResult("count must be a positive integer"), nil
		}
		count = n
	}

	if err := anki.CheckConnection(ctx, s.client); err != nil {
		return errorResult("%v", err), nil
	}

	cardIDs, err := anki.FindCards(ctx, s.client, anki.LeechQuery)
	if err != nil {
		s.log.Info("Leech card search failed: %v", err)
		return errorResult("failed to search for leech cards: %v", err), nil
	}

	total := len(cardIDs)
	if total == 0 {
		res := leechCardsResult{envelope: envelope{Message: "No leech cards found."}}
		return successResult(res), nil
	}

	if count > 0 && count < total {
		s.log.Debug("Sampling %d of %d leech cards", count, total)
		cardIDs = s.sampler.Sample(cardIDs, count)
	}

	if !detailed {
		res := leechCardsResult{
			envelope:        envelope{Message: fmt.Sprintf("Found %d leech cards.", total)},
			Count:           len(cardIDs),
			TotalLeechCards: total,
			CardIDs:         cardIDs,
		}
		return successResult(res), nil
	}

	records, err := s.hydrator.Hydrate(ctx, cardIDs)
	if err != nil {
		s.log.Info("Leech card assembly failed: %v", err)
		return errorResult("failed to fetch card details: %v", err), nil
	}
	res := leechCardsResult{
		envelope:        envelope{Message: fmt.Sprintf("Found %d leech cards.", total)},
		Count:           len(records),
		TotalLeechCards: total,
		Cards:           records,
	}
	return successResult(res), nil
}

func (s *Server) handleTagReviewedCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardIDs, err := int64SliceArg(request.GetArguments()["card_ids"])
	if err != nil {
		return errorResult("card_ids must be a non-empty array of card identifiers"), nil
	}
	prefix := request.GetString("custom_tag_prefix", "")

	if err := anki.CheckConnection(ctx, s.client); err != nil {
		return errorResult("%v", err), nil
	}

	infos, err := anki.CardsInfo(ctx, s.client, cardIDs)
	if err != nil {
		s.log.Info("Card lookup for tagging failed: %v", err)
		return errorResult("failed to look up cards: %v", err), nil
	}

	noteIDs := cards.NoteIDs(infos)
	if len(noteIDs) == 0 {
		return errorResult("no notes found for the given card identifiers"), nil
	}

	tag := anki.ReviewTag(prefix, time.Now())
	if err := anki.AddTags(ctx, s.client, noteIDs, tag); err != nil {
		s.log.Info("Tagging failed: %v", err)
		return errorResult("failed to tag notes: %v", err), nil
	}

	s.log.Debug("Tagged %d notes with %s", len(noteIDs), tag)
	res := tagReviewedResult{
		envelope:    envelope{Message: fmt.Sprintf("Tagged %d notes with %q.", len(noteIDs), tag)},
		Tag:         tag,
		CardCount:   len(cardIDs),
		TaggedNotes: len(noteIDs),
	}
	return successResult(res), nil
}

// --- Argument coercion ---

// intArg converts a JSON-decoded argument to an int. JSON numbers
// arrive as float64, so integrality has to be checked explicitly.
func intArg(v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

// int64SliceArg converts a JSON-decoded argument to a non-empty slice
// of int64 identifiers.
func int64SliceArg(v interface{}) ([]int64, error) {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("not a non-empty array")
	}
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		f, ok := item.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("element is not an integer")
		}
		ids = append(ids, int64(f))
	}
	return ids, nil
}
