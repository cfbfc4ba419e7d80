package models

// FieldValue is a single note field as AnkiConnect reports it.
type FieldValue struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// CardStats carries the review statistics of a card. Ease is the
// scheduler's factor scaled down to its human form (2500 -> 2.5).
type CardStats struct {
	Ease     float64 `json:"ease"`
	Interval int     `json:"interval"`
	Reviews  int     `json:"reviews"`
	Lapses   int     `json:"lapses"`
}

// CardRecord joins a card with its note into one reviewable view.
// Records are built fresh per request and never persisted.
type CardRecord struct {
	ID         int64                 `json:"id"`
	NoteID     int64                 `json:"noteId"`
	DeckName   string                `json:"deckName"`
	ModelName  string                `json:"modelName"`
	Fields     map[string]FieldValue `json:"fields"`
	Tags       []string              `json:"tags"`
	Front      string                `json:"front"`
	Back       string                `json:"back"`
	Statistics CardStats             `json:"statistics"`
}
