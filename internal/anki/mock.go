package anki

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/ankimcp/pkg/logger"
	"github.com/kpauljoseph/ankimcp/pkg/models"
)

// MockCardIDs are the card identifiers the built-in fixtures describe.
var MockCardIDs = []int64{1234567890, 1234567891, 1234567892}

// MockNoteIDs are the note identifiers behind MockCardIDs, index for
// index.
var MockNoteIDs = []int64{9876543210, 9876543211, 9876543212}

// MockClient serves canned results keyed by action and never touches
// the network. It lets an assistant exercise every tool without a
// running Anki instance.
type MockClient struct {
	log      *logger.Logger
	fixtures map[string]json.RawMessage
}

var _ Client = (*MockClient)(nil)

// NewMockClient returns a client preloaded with the built-in fixtures.
func NewMockClient(log *logger.Logger) *MockClient {
	return &MockClient{
		log:      log,
		fixtures: defaultFixtures(),
	}
}

// LoadFixtures overlays canned results from a YAML file mapping action
// names to the result payload each should return. Actions absent from
// the file keep their built-in fixtures.
func (m *MockClient) LoadFixtures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixtures file: %w", err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse fixtures file %s: %w", path, err)
	}
	for action, value := range doc {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode fixture for %s: %w", action, err)
		}
		m.fixtures[action] = raw
	}
	m.log.Debug("Loaded %d fixture overrides from %s", len(doc), path)
	return nil
}

// Invoke answers from the fixture table. Unknown actions produce a null
// result rather than an error.
func (m *MockClient) Invoke(_ context.Context, action string, _ interface{}) (json.RawMessage, error) {
	if raw, ok := m.fixtures[action]; ok {
		m.log.Trace("Mock response for %s", action)
		return raw, nil
	}
	m.log.Debug("No fixture for %s, returning null", action)
	return json.RawMessage("null"), nil
}

func defaultFixtures() map[string]json.RawMessage {
	cards := make([]CardInfo, len(MockCardIDs))
	notes := make([]NoteInfo, len(MockNoteIDs))
	for i := range MockCardIDs {
		cards[i] = CardInfo{
			CardID:    MockCardIDs[i],
			Note:      MockNoteIDs[i],
			DeckName:  "Default",
			ModelName: "Basic",
			Factor:    2500,
			Interval:  10,
			Reps:      7,
			Lapses:    4,
		}
		notes[i] = NoteInfo{
			NoteID:    MockNoteIDs[i],
			ModelName: "Basic",
			Tags:      []string{"leech", "mock"},
			Fields: map[string]models.FieldValue{
				"Front": {Value: fmt.Sprintf("Mock question %d", i+1), Order: 0},
				"Back":  {Value: fmt.Sprintf("Mock answer %d", i+1), Order: 1},
			},
		}
	}
	return map[string]json.RawMessage{
		ActionVersion:   mustJSON(6),
		ActionFindCards: mustJSON(MockCardIDs),
		ActionCardsInfo: mustJSON(cards),
		ActionNotesInfo: mustJSON(notes),
		ActionAddTags:   json.RawMessage("null"),
	}
}

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fixture encoding failed: %v", err))
	}
	return raw
}
