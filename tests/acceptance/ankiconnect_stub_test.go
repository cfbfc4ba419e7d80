package acceptance_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/kpauljoseph/ankimcp/internal/anki"
)

// stubAnki is an in-memory AnkiConnect double speaking the real wire
// protocol over HTTP, with just enough collection state to follow a
// review session end to end.
type stubAnki struct {
	srv *httptest.Server

	mu      sync.Mutex
	leeches []int64
	cards   map[int64]anki.CardInfo
	notes   map[int64]anki.NoteInfo
}

func newStubAnki() *stubAnki {
	s := &stubAnki{
		cards: make(map[int64]anki.CardInfo),
		notes: make(map[int64]anki.NoteInfo),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *stubAnki) URL() string { return s.srv.URL }

func (s *stubAnki) Close() { s.srv.Close() }

func (s *stubAnki) addLeech(card anki.CardInfo, note anki.NoteInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leeches = append(s.leeches, card.CardID)
	s.cards[card.CardID] = card
	s.notes[note.NoteID] = note
}

func (s *stubAnki) noteTags(noteID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notes[noteID].Tags...)
}

func (s *stubAnki) handle(w http.ResponseWriter, r *http.Request) {
	var req anki.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, nil, fmt.Sprintf("cannot decode request: %v", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Action {
	case anki.ActionVersion:
		respond(w, 6, "")

	case anki.ActionFindCards:
		respond(w, s.leeches, "")

	case anki.ActionCardsInfo:
		var params anki.CardsInfoParams
		if err := reparse(req.Params, &params); err != nil {
			respond(w, nil, err.Error())
			return
		}
		infos := make([]anki.CardInfo, 0, len(params.Cards))
		for _, id := range params.Cards {
			if card, ok := s.cards[id]; ok {
				infos = append(infos, card)
			}
		}
		respond(w, infos, "")

	case anki.ActionNotesInfo:
		var params anki.NotesInfoParams
		if err := reparse(req.Params, &params); err != nil {
			respond(w, nil, err.Error())
			return
		}
		infos := make([]anki.NoteInfo, 0, len(params.Notes))
		for _, id := range params.Notes {
			if note, ok := s.notes[id]; ok {
				infos = append(infos, note)
			}
		}
		respond(w, infos, "")

	case anki.ActionAddTags:
		var params anki.AddTagsParams
		if err := reparse(req.Params, &params); err != nil {
			respond(w, nil, err.Error())
			return
		}
		for _, id := range params.Notes {
			if note, ok := s.notes[id]; ok {
				note.Tags = append(note.Tags, params.Tags)
				s.notes[id] = note
			}
		}
		respond(w, nil, "")

	default:
		respond(w, nil, fmt.Sprintf("unsupported action: %s", req.Action))
	}
}

// reparse converts the loosely decoded params back into their typed
// form, the same round trip a real AnkiConnect add-on performs.
func reparse(params interface{}, into interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}

func respond(w http.ResponseWriter, result interface{}, errMsg string) {
	envelope := map[string]interface{}{
		"result": result,
		"error":  nil,
	}
	if errMsg != "" {
		envelope["error"] = errMsg
	}
	_ = json.NewEncoder(w).Encode(envelope)
}
