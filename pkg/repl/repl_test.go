package repl_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/parleyhq/parley/pkg/repl"
)

func TestRepl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REPL Suite")
}

// echoResponder records utterances and replies with a fixed text, or fails
// when err is set.
type echoResponder struct {
	reply string
	err   error
	calls []string
}

func (r *echoResponder) Respond(_ context.Context, utterance string) (string, error) {
	r.calls = append(r.calls, utterance)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

// abortingInput simulates Ctrl+C on the first prompt.
type abortingInput struct{}

func (abortingInput) ReadLine(string) (string, error) { return "", repl.ErrInterrupted }
func (abortingInput) Close() error                    { return nil }

var _ = Describe("Session", func() {
	var (
		out       *bytes.Buffer
		responder *echoResponder
	)

	run := func(input string) (int, error) {
		in := repl.NewScannerInput(strings.NewReader(input), out)
		s := repl.New(responder, in, out, zap.NewNop())
		return s.Run(context.Background())
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
		responder = &echoResponder{reply: "Hello. How can I help you today?"}
	})

	It("prints the banner before the first prompt", func() {
		code, err := run(":quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitOK))
		Expect(out.String()).To(HavePrefix(repl.Banner))
	})

	It("exits zero on :quit", func() {
		code, err := run(":quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitOK))
		Expect(out.String()).To(ContainSubstring("bot: Goodbye.\n"))
	})

	It("accepts the :q and :exit aliases", func() {
		for _, alias := range []string{":q", ":exit"} {
			out.Reset()
			code, err := run(alias + "\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(repl.ExitOK))
			Expect(out.String()).To(ContainSubstring("bot: Goodbye.\n"))
		}
		Expect(responder.calls).To(BeEmpty())
	})

	It("prints the hint on :help and keeps the session going", func() {
		code, err := run(":help\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitOK))
		Expect(out.String()).To(ContainSubstring("bot: Type to chat. Use :quit to exit.\n"))
		Expect(out.String()).To(ContainSubstring("bot: Goodbye.\n"))
		Expect(responder.calls).To(BeEmpty())
	})

	It("accepts the :h alias", func() {
		_, err := run(":h\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("bot: Type to chat. Use :quit to exit.\n"))
	})

	It("ignores blank input", func() {
		_, err := run("   \n\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(responder.calls).To(BeEmpty())
	})

	It("prints timed replies", func() {
		_, err := run("hi\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(responder.calls).To(Equal([]string{"hi"}))
		Expect(out.String()).To(MatchRegexp(`bot: Hello\. How can I help you today\?  \(\d+ ms\)\n`))
	})

	It("trims surrounding whitespace from utterances", func() {
		_, err := run("  hi there  \n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(responder.calls).To(Equal([]string{"hi there"}))
	})

	It("absorbs responder failures with an apology", func() {
		responder.err = errors.New("storage unavailable")

		code, err := run("hi\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitOK))
		Expect(out.String()).To(ContainSubstring("bot: I hit an internal error. Please try again.\n"))
		Expect(out.String()).To(ContainSubstring("bot: Goodbye.\n"))
	})

	It("says goodbye when input ends", func() {
		code, err := run("")
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitOK))
		Expect(out.String()).To(ContainSubstring("bot: Goodbye.\n"))
	})

	It("exits 130 when the prompt is interrupted", func() {
		s := repl.New(responder, abortingInput{}, out, zap.NewNop())

		code, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(repl.ExitInterrupted))
		Expect(out.String()).To(ContainSubstring("\nbot: Interrupted by user. Goodbye.\n"))
	})

	It("echoes the prompt before each read", func() {
		_, err := run("hi\n:quit\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(out.String(), "user: ")).To(Equal(2))
	})

	It("counts turns that reached the responder", func() {
		responder.err = errors.New("storage unavailable")

		in := repl.NewScannerInput(strings.NewReader("hi\n:help\n\nsecond try\n:quit\n"), out)
		s := repl.New(responder, in, out, zap.NewNop())
		_, err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Turns()).To(Equal(2))
	})
})
