// Package cards assembles API-shaped card records from AnkiConnect's
// split card and note views, and samples subsets of them.
package cards

import (
	"context"
	"fmt"
	"time"

	"github.com/kpauljoseph/ankimcp/internal/anki"
	"github.com/kpauljoseph/ankimcp/pkg/logger"
	"github.com/kpauljoseph/ankimcp/pkg/models"
)

const (
	// batchSize is how many records are assembled between long pauses.
	batchSize = 5

	// intraBatchDelay spaces records inside a batch, interBatchDelay
	// spaces the batches themselves. Together they keep assembly from
	// turning into a burst against Anki's request thread.
	intraBatchDelay = 100 * time.Millisecond
	interBatchDelay = 500 * time.Millisecond

	// factorScale converts Anki's integer ease factor to the multiplier
	// shown in the review UI (2500 becomes 2.5).
	factorScale = 1000.0
)

// PlaceholderContent fills the front and back of assembled records.
// Rendering actual card faces requires Anki's template engine, which
// this server deliberately does not reimplement; the raw field values
// carry the real content.
const PlaceholderContent = "[content not rendered]"

// Hydrator turns bare card identifiers into full records by joining
// bulk cardsInfo and notesInfo results.
type Hydrator struct {
	client anki.Client
	log    *logger.Logger
	sleep  func(time.Duration)
}

// HydratorOption adjusts a Hydrator beyond its defaults.
type HydratorOption func(*Hydrator)

// WithSleep substitutes the pacing function. Tests record the requested
// delays instead of waiting.
func WithSleep(fn func(time.Duration)) HydratorOption {
	return func(h *Hydrator) {
		h.sleep = fn
	}
}

// NewHydrator returns a Hydrator reading through the given client.
func NewHydrator(client anki.Client, log *logger.Logger, opts ...HydratorOption) *Hydrator {
	h := &Hydrator{
		client: client,
		log:    log,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hydrate fetches card and note details for the given card identifiers
// and joins them into full records. Exactly two bulk calls are issued
// regardless of input size. Cards whose note cannot be found are logged
// and skipped rather than failing the whole batch.
func (h *Hydrator) Hydrate(ctx context.Context, cardIDs []int64) ([]models.CardRecord, error) {
	if len(cardIDs) == 0 {
		return []models.CardRecord{}, nil
	}

	cardInfos, err := anki.CardsInfo(ctx, h.client, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card details: %w", err)
	}

	notes := make(map[int64]anki.NoteInfo)
	if noteIDs := NoteIDs(cardInfos); len(noteIDs) > 0 {
		noteInfos, err := anki.NotesInfo(ctx, h.client, noteIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch note details: %w", err)
		}
		for _, note := range noteInfos {
			notes[note.NoteID] = note
		}
	}

	records := make([]models.CardRecord, 0, len(cardInfos))
	for start := 0; start < len(cardInfos); start += batchSize {
		if start > 0 {
			h.sleep(interBatchDelay)
		}
		end := min(start+batchSize, len(cardInfos))
		for i, card := range cardInfos[start:end] {
			if i > 0 {
				h.sleep(intraBatchDelay)
			}
			note, ok := notes[card.Note]
			if !ok {
				h.log.Warn("Note %d for card %d is missing, skipping card", card.Note, card.CardID)
				continue
			}
			records = append(records, buildRecord(card, note))
		}
	}
	return records, nil
}

// NoteIDs returns the distinct note identifiers behind the given cards,
// in first-seen order.
func NoteIDs(cards []anki.CardInfo) []int64 {
	seen := make(map[int64]bool, len(cards))
	ids := make([]int64, 0, len(cards))
	for _, card := range cards {
		if card.Note == 0 || seen[card.Note] {
			continue
		}
		seen[card.Note] = true
		ids = append(ids, card.Note)
	}
	return ids
}

func buildRecord(card anki.CardInfo, note anki.NoteInfo) models.CardRecord {
	return models.CardRecord{
		ID:        card.CardID,
		NoteID:    note.NoteID,
		DeckName:  card.DeckName,
		ModelName: note.ModelName,
		Fields:    note.Fields,
		Tags:      note.Tags,
		Front:     PlaceholderContent,
		Back:      PlaceholderContent,
		Statistics: models.CardStats{
			Ease:     float64(card.Factor) / factorScale,
			Interval: card.Interval,
			Reviews:  card.Reps,
			Lapses:   card.Lapses,
		},
	}
}
