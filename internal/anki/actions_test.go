package anki_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/ankimcp/internal/anki"
)

// failingClient refuses every call, as a server with no Anki behind it
// would.
type failingClient struct{}

func (failingClient) Invoke(context.Context, string, interface{}) (json.RawMessage, error) {
	return nil, anki.NewConnectionRefusedError(anki.ActionVersion, fmt.Errorf("dial tcp 127.0.0.1:8765: connect: connection refused"))
}

// cannedClient returns one fixed payload for every action.
type cannedClient struct{ raw json.RawMessage }

func (c cannedClient) Invoke(context.Context, string, interface{}) (json.RawMessage, error) {
	return c.raw, nil
}

var _ = Describe("Actions", func() {
	var (
		ctx  context.Context
		mock *anki.MockClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = anki.NewMockClient(clientTestLogger())
	})

	Describe("FindCards", func() {
		It("decodes the identifier list", func() {
			ids, err := anki.FindCards(ctx, mock, anki.LeechQuery)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal(anki.MockCardIDs))
		})

		It("rejects a result of the wrong shape", func() {
			_, err := anki.FindCards(ctx, cannedClient{json.RawMessage(`"nope"`)}, anki.LeechQuery)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse findCards result"))
		})
	})

	Describe("CardsInfo", func() {
		It("decodes the card records", func() {
			infos, err := anki.CardsInfo(ctx, mock, anki.MockCardIDs)
			Expect(err).NotTo(HaveOccurred())
			Expect(infos).To(HaveLen(3))
			Expect(infos[0].CardID).To(Equal(anki.MockCardIDs[0]))
			Expect(infos[0].Note).To(Equal(anki.MockNoteIDs[0]))
			Expect(infos[0].Factor).To(Equal(2500))
			Expect(infos[0].DeckName).To(Equal("Default"))
		})
	})

	Describe("NotesInfo", func() {
		It("decodes the note records", func() {
			notes, err := anki.NotesInfo(ctx, mock, anki.MockNoteIDs)
			Expect(err).NotTo(HaveOccurred())
			Expect(notes).To(HaveLen(3))
			Expect(notes[0].NoteID).To(Equal(anki.MockNoteIDs[0]))
			Expect(notes[0].ModelName).To(Equal("Basic"))
			Expect(notes[0].Tags).To(ContainElement("leech"))
			Expect(notes[0].Fields).To(HaveKey("Front"))
			Expect(notes[0].Fields["Front"].Value).To(Equal("Mock question 1"))
		})
	})

	Describe("AddTags", func() {
		It("succeeds on a null result", func() {
			Expect(anki.AddTags(ctx, mock, anki.MockNoteIDs, "reviewed_20250314")).To(Succeed())
		})

		It("propagates transport failures", func() {
			err := anki.AddTags(ctx, failingClient{}, anki.MockNoteIDs, "reviewed_20250314")
			Expect(err).To(HaveOccurred())
			Expect(anki.IsKind(err, anki.KindConnectionRefused)).To(BeTrue())
		})
	})

	Describe("ProbeVersion", func() {
		It("reports the API version", func() {
			version, err := anki.ProbeVersion(ctx, mock)
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(6))
		})

		It("rejects a non-numeric version", func() {
			_, err := anki.ProbeVersion(ctx, cannedClient{json.RawMessage(`"six"`)})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse version result"))
		})
	})

	Describe("IsAvailable", func() {
		It("is true when the version probe answers", func() {
			Expect(anki.IsAvailable(ctx, mock)).To(BeTrue())
		})

		It("is false when the probe fails", func() {
			Expect(anki.IsAvailable(ctx, failingClient{})).To(BeFalse())
		})
	})

	Describe("CheckConnection", func() {
		It("is quiet when AnkiConnect answers", func() {
			Expect(anki.CheckConnection(ctx, mock)).To(Succeed())
		})

		It("explains the setup steps when it does not", func() {
			err := anki.CheckConnection(ctx, failingClient{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Anki is running"))
			Expect(err.Error()).To(ContainSubstring("2055492159"))
		})
	})

	Describe("ReviewTag", func() {
		date := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

		It("joins the prefix with the date", func() {
			Expect(anki.ReviewTag("exam-prep", date)).To(Equal("exam-prep_20250314"))
		})

		It("falls back to the default prefix", func() {
			Expect(anki.ReviewTag("", date)).To(Equal("reviewed_20250314"))
		})

		It("flattens spaces so the result stays a single tag", func() {
			Expect(anki.ReviewTag("hard cases", date)).To(Equal("hard_cases_20250314"))
		})
	})
})
