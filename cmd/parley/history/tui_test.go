package historycmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/parleyhq/parley/pkg/conversation"
)

var _ = Describe("History TUI helpers", func() {
	Describe("visibleRange", func() {
		It("shows everything when the window is large enough", func() {
			start, end := visibleRange(0, 5, 10)
			Expect(start).To(Equal(0))
			Expect(end).To(Equal(5))
		})

		It("centers the window on the cursor", func() {
			start, end := visibleRange(10, 50, 6)
			Expect(start).To(Equal(7))
			Expect(end).To(Equal(13))
		})

		It("pins the window to the start", func() {
			start, end := visibleRange(0, 50, 6)
			Expect(start).To(Equal(0))
			Expect(end).To(Equal(6))
		})

		It("pins the window to the end", func() {
			start, end := visibleRange(49, 50, 6)
			Expect(start).To(Equal(44))
			Expect(end).To(Equal(50))
		})
	})

	Describe("wrapText", func() {
		It("keeps short text on one line", func() {
			Expect(wrapText("hello there", 80)).To(Equal([]string{"hello there"}))
		})

		It("breaks long text at word boundaries", func() {
			lines := wrapText("the quick brown fox jumps over the lazy dog", 15)
			Expect(len(lines)).To(BeNumerically(">", 1))
			for _, line := range lines {
				Expect(len(line)).To(BeNumerically("<=", 15))
			}
		})

		It("returns a single empty line for blank text", func() {
			Expect(wrapText("   ", 80)).To(Equal([]string{""}))
		})
	})

	Describe("truncateText", func() {
		It("leaves short values alone", func() {
			Expect(truncateText("hello", 10)).To(Equal("hello"))
		})

		It("truncates with an ellipsis", func() {
			Expect(truncateText("hello world", 8)).To(Equal("hello..."))
		})
	})

	Describe("sourceLabel", func() {
		It("names trained statements", func() {
			st := &conversation.Statement{Conversation: conversation.TrainingConversation}
			Expect(sourceLabel(st)).To(Equal("training"))
		})

		It("shortens chat session ids", func() {
			st := &conversation.Statement{Conversation: "4be0643f-1d98-573b-97cd-ca98a65347dd"}
			Expect(sourceLabel(st)).To(Equal("4be0643f..."))
		})

		It("falls back when no conversation is recorded", func() {
			Expect(sourceLabel(&conversation.Statement{})).To(Equal("unknown"))
		})
	})

	Describe("visible", func() {
		var model historyModel

		BeforeEach(func() {
			statements := []*conversation.Statement{
				{Text: "Hello. How can I help you today?", Conversation: conversation.TrainingConversation},
				{Text: "what do you know", Conversation: "4be0643f-1d98-573b-97cd-ca98a65347dd"},
				{Text: "Goodbye. Talk to you later.", Conversation: conversation.TrainingConversation},
			}
			model = newHistoryModel(nil, 50, "", statements)
		})

		It("starts with every statement", func() {
			Expect(model.visible()).To(HaveLen(3))
		})

		It("narrows to trained statements", func() {
			model.sourceIndex = 1
			Expect(model.visible()).To(HaveLen(2))
		})

		It("narrows to statements learned in chat sessions", func() {
			model.sourceIndex = 2
			visible := model.visible()
			Expect(visible).To(HaveLen(1))
			Expect(visible[0].Text).To(Equal("what do you know"))
		})
	})
})
