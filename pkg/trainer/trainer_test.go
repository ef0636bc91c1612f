package trainer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/corpus"
	"github.com/parleyhq/parley/pkg/logger"
	"github.com/parleyhq/parley/pkg/storage/inmemory"
	"github.com/parleyhq/parley/pkg/trainer"
)

func TestTrainer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Trainer Suite")
}

var _ = Describe("Trainer", func() {
	var (
		ctx   context.Context
		store *inmemory.Driver
		tr    *trainer.Trainer
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewDriver()
		tr = trainer.New(store, logger.Nop(), "TerminalBot")
	})

	Describe("TrainList", func() {
		It("chains each utterance to the one before it", func() {
			n, err := tr.TrainList(ctx, []string{
				"Hello",
				"Hello. How can I help you today?",
				"What are you?",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))

			replies, err := store.Replies(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(replies).To(HaveLen(2))
			Expect(replies[0].Text).To(Equal("Hello. How can I help you today?"))
			Expect(replies[0].InResponseTo).To(Equal("Hello"))
			Expect(replies[1].InResponseTo).To(Equal("Hello. How can I help you today?"))
		})

		It("tags statements as training data", func() {
			_, err := tr.TrainList(ctx, []string{"Hello", "Hi there!"})
			Expect(err).NotTo(HaveOccurred())

			recent, err := store.Recent(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			for _, st := range recent {
				Expect(st.Conversation).To(Equal(conversation.TrainingConversation))
				Expect(st.Persona).To(Equal("TerminalBot"))
			}
		})

		It("stores nothing for an empty conversation", func() {
			n, err := tr.TrainList(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("makes the default pairs answerable", func() {
			_, err := tr.TrainList(ctx, trainer.DefaultPairs)
			Expect(err).NotTo(HaveOccurred())

			responses, err := store.ResponsesTo(ctx, "what are you?")
			Expect(err).NotTo(HaveOccurred())
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Text).To(Equal("I am parley, a simple terminal chatbot."))
		})
	})

	Describe("TrainCorpus", func() {
		var root string

		BeforeEach(func() {
			root = GinkgoT().TempDir()
			dir := filepath.Join(root, "english")
			Expect(os.MkdirAll(dir, 0o755)).To(Succeed())

			greetings := `categories:
- greetings
conversations:
- - Hello
  - Hi there!
- - Good morning
  - Morning! Lovely day.
`
			Expect(os.WriteFile(filepath.Join(dir, "greetings.yml"), []byte(greetings), 0o600)).To(Succeed())
		})

		It("ingests every conversation in a corpus", func() {
			n, err := tr.TrainCorpus(ctx, root, "english.greetings")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(4))

			responses, err := store.ResponsesTo(ctx, "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(responses).To(HaveLen(1))
			Expect(responses[0].Text).To(Equal("Hi there!"))
		})

		It("accepts a directory name", func() {
			n, err := tr.TrainCorpus(ctx, root, "english")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(4))
		})

		It("fails on an unknown corpus name", func() {
			n, err := tr.TrainCorpus(ctx, root, "english.nonexistent")
			Expect(err).To(BeAssignableToTypeOf(corpus.NotFoundError{}))
			Expect(n).To(BeZero())
		})

		It("keeps the partial count when a later name fails", func() {
			n, err := tr.TrainCorpus(ctx, root, "english.greetings", "english.missing")
			Expect(err).To(HaveOccurred())
			Expect(n).To(Equal(4))
		})
	})
})
