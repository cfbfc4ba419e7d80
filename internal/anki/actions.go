package anki

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultTagPrefix is the tag prefix used when a caller does not supply
// one of their own.
const DefaultTagPrefix = "reviewed"

// LeechQuery is the search query selecting every card Anki has flagged
// as a leech.
const LeechQuery = "tag:leech"

// FindCards returns the identifiers of all cards matching an Anki
// search query.
func FindCards(ctx context.Context, c Client, query string) ([]int64, error) {
	result, err := c.Invoke(ctx, ActionFindCards, FindCardsParams{Query: query})
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(result, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse %s result: %w", ActionFindCards, err)
	}
	return ids, nil
}

// CardsInfo returns the card-level records for the given card
// identifiers.
func CardsInfo(ctx context.Context, c Client, cardIDs []int64) ([]CardInfo, error) {
	result, err := c.Invoke(ctx, ActionCardsInfo, CardsInfoParams{Cards: cardIDs})
	if err != nil {
		return nil, err
	}
	var infos []CardInfo
	if err := json.Unmarshal(result, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse %s result: %w", ActionCardsInfo, err)
	}
	return infos, nil
}

// NotesInfo returns the note-level records for the given note
// identifiers.
func NotesInfo(ctx context.Context, c Client, noteIDs []int64) ([]NoteInfo, error) {
	result, err := c.Invoke(ctx, ActionNotesInfo, NotesInfoParams{Notes: noteIDs})
	if err != nil {
		return nil, err
	}
	var infos []NoteInfo
	if err := json.Unmarshal(result, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse %s result: %w", ActionNotesInfo, err)
	}
	return infos, nil
}

// AddTags applies a tag to every given note in a single call.
func AddTags(ctx context.Context, c Client, noteIDs []int64, tag string) error {
	if _, err := c.Invoke(ctx, ActionAddTags, AddTagsParams{Notes: noteIDs, Tags: tag}); err != nil {
		return err
	}
	return nil
}

// ProbeVersion asks AnkiConnect which API version it speaks.
func ProbeVersion(ctx context.Context, c Client) (int, error) {
	result, err := c.Invoke(ctx, ActionVersion, nil)
	if err != nil {
		return 0, err
	}
	var version int
	if err := json.Unmarshal(result, &version); err != nil {
		return 0, fmt.Errorf("failed to parse %s result: %w", ActionVersion, err)
	}
	return version, nil
}

// IsAvailable reports whether AnkiConnect currently answers a version
// probe.
func IsAvailable(ctx context.Context, c Client) bool {
	_, err := ProbeVersion(ctx, c)
	return err == nil
}

// CheckConnection verifies AnkiConnect is reachable, returning
// installation guidance when it is not.
func CheckConnection(ctx context.Context, c Client) error {
	if IsAvailable(ctx, c) {
		return nil
	}
	return fmt.Errorf("could not connect to Anki. Please ensure:\n" +
		"1. Anki is running https://apps.ankiweb.net/#download\n" +
		"2. AnkiConnect add-on is installed (code: 2055492159) https://ankiweb.net/shared/info/2055492159\n" +
		"3. Anki has been restarted after installing AnkiConnect")
}

// ReviewTag builds the dated tag applied by a tagging run, for example
// "reviewed_20250314". Spaces in the prefix are flattened to
// underscores so the result stays a single Anki tag.
func ReviewTag(prefix string, date time.Time) string {
	if prefix == "" {
		prefix = DefaultTagPrefix
	}
	prefix = strings.ReplaceAll(prefix, " ", "_")
	return fmt.Sprintf("%s_%s", prefix, date.Format("20060102"))
}
