package anki

import (
	"encoding/json"

	"github.com/kpauljoseph/ankimcp/pkg/models"
)

// Actions this server issues against the AnkiConnect API.
const (
	ActionVersion   = "version"
	ActionFindCards = "findCards"
	ActionCardsInfo = "cardsInfo"
	ActionNotesInfo = "notesInfo"
	ActionAddTags   = "addTags"
)

// Request is the AnkiConnect call envelope. It names the action to
// perform and the API version the caller speaks, plus any parameters
// the action takes.
type Request struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
}

// Response is AnkiConnect's reply envelope. Exactly one of Result and
// Error is meaningful; a non-nil Error marks the call as failed.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// FindCardsParams selects cards with an Anki search query, for example
// "tag:leech" or "deck:Spanish".
type FindCardsParams struct {
	Query string `json:"query"`
}

// CardsInfoParams names the cards a cardsInfo call should describe.
type CardsInfoParams struct {
	Cards []int64 `json:"cards"`
}

// NotesInfoParams names the notes a notesInfo call should describe.
type NotesInfoParams struct {
	Notes []int64 `json:"notes"`
}

// AddTagsParams adds a space-separated tag string to a set of notes.
type AddTagsParams struct {
	Notes []int64 `json:"notes"`
	Tags  string  `json:"tags"`
}

// CardInfo is the card-level record returned by cardsInfo. Factor is
// Anki's internal ease representation, one thousand times the ease
// multiplier shown in the review UI.
type CardInfo struct {
	CardID    int64  `json:"cardId"`
	Note      int64  `json:"note"`
	DeckName  string `json:"deckName"`
	ModelName string `json:"modelName"`
	Factor    int    `json:"factor"`
	Interval  int    `json:"interval"`
	Reps      int    `json:"reps"`
	Lapses    int    `json:"lapses"`
}

// NoteInfo is the note-level record returned by notesInfo.
type NoteInfo struct {
	NoteID    int64                        `json:"noteId"`
	ModelName string                       `json:"modelName"`
	Tags      []string                     `json:"tags"`
	Fields    map[string]models.FieldValue `json:"fields"`
}
