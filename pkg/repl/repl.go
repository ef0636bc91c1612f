// Package repl implements the interactive terminal chat session.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Responder generates a reply to a user utterance.
type Responder interface {
	Respond(ctx context.Context, utterance string) (string, error)
}

// Banner greets the user at the start of a session.
const Banner = "\nparley CLI\n" +
	"Type your message and press Enter.\n" +
	"Commands: :help  :quit\n"

// InterruptedReply is also printed by the chat command's signal handler,
// which covers interrupts the input reader cannot see.
const InterruptedReply = "\nbot: Interrupted by user. Goodbye."

const (
	prompt       = "user: "
	goodbyeReply = "bot: Goodbye."
	helpReply    = "bot: Type to chat. Use :quit to exit."
	errorReply   = "bot: I hit an internal error. Please try again."
)

// Exit codes returned by Run.
const (
	ExitOK          = 0
	ExitInterrupted = 130
)

// Session drives the read-eval-print loop between an InputReader and a
// Responder.
type Session struct {
	responder Responder
	input     InputReader
	out       io.Writer
	logger    *zap.Logger

	turns int
}

// New creates a Session. The logger should write to the session log;
// exchanges are recorded there, never on the console.
func New(responder Responder, input InputReader, out io.Writer, logger *zap.Logger) *Session {
	return &Session{
		responder: responder,
		input:     input,
		out:       out,
		logger:    logger,
	}
}

// Run prints the banner and loops until the user quits, input ends, or the
// prompt is interrupted. It returns the process exit code: 0 for a normal
// quit, 130 when interrupted. Responder failures never end the session.
func (s *Session) Run(ctx context.Context) (int, error) {
	fmt.Fprint(s.out, Banner)

	for {
		line, err := s.input.ReadLine(prompt)
		if err == ErrInterrupted {
			fmt.Fprintln(s.out, InterruptedReply)
			return ExitInterrupted, nil
		}
		if err == io.EOF {
			fmt.Fprintln(s.out, goodbyeReply)
			return ExitOK, nil
		}
		if err != nil {
			return ExitOK, fmt.Errorf("reading input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		switch text {
		case ":quit", ":q", ":exit":
			fmt.Fprintln(s.out, goodbyeReply)
			return ExitOK, nil
		case ":help", ":h":
			fmt.Fprintln(s.out, helpReply)
			continue
		}

		s.respond(ctx, text)
	}
}

// Turns reports how many utterances reached the responder, counting turns
// that ended in an apology.
func (s *Session) Turns() int {
	return s.turns
}

// respond times one exchange, printing the reply or an apology when the
// responder fails.
func (s *Session) respond(ctx context.Context, text string) {
	s.turns++

	start := time.Now()
	reply, err := s.responder.Respond(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Error("error generating response",
			zap.Error(err),
			zap.String("user", text),
		)
		fmt.Fprintln(s.out, errorReply)
		return
	}

	ms := elapsed.Round(time.Millisecond).Milliseconds()
	fmt.Fprintf(s.out, "bot: %s  (%d ms)\n", reply, ms)
	s.logger.Info("exchange",
		zap.String("user", text),
		zap.String("bot", reply),
		zap.Int64("ms", ms),
	)
}
