// Package session runs the interactive agent shell: read a line, send it to
// the gateway, print the reply or the offline fallback, repeat.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/history"
)

// Chatter sends one message to an agent and returns its reply
type Chatter interface {
	Chat(ctx context.Context, agent, message string) (string, error)
}

// Recorder persists exchanges
type Recorder interface {
	Record(ctx context.Context, e history.Exchange) error
}

// Formatter turns a raw reply into terminal output
type Formatter interface {
	Render(text string) (string, error)
}

// Session is one run of the shell against a fixed agent and gateway.
type Session struct {
	Agent   string
	Gateway string

	chatter   Chatter
	in        io.Reader
	out       io.Writer
	logger    *zap.Logger
	recorder  Recorder
	sessionID string
	formatter Formatter
	copyFn    func(string) error
	styles    styles
}

// Option configures a Session
type Option func(*Session)

// WithInput sets the line source (default os.Stdin)
func WithInput(r io.Reader) Option {
	return func(s *Session) {
		if r != nil {
			s.in = r
		}
	}
}

// WithOutput sets where prompts and replies go (default os.Stdout)
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithLogger sets the logger used for gateway and recorder failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder records every exchange under sessionID.
// A fresh id is generated when sessionID is empty.
func WithRecorder(rec Recorder, sessionID string) Option {
	return func(s *Session) {
		s.recorder = rec
		if sessionID == "" {
			sessionID = history.NewSessionID()
		}
		s.sessionID = sessionID
	}
}

// WithFormatter renders successful replies, e.g. as markdown
func WithFormatter(f Formatter) Option {
	return func(s *Session) {
		s.formatter = f
	}
}

// WithClipboard copies each successful reply through fn
func WithClipboard(fn func(string) error) Option {
	return func(s *Session) {
		s.copyFn = fn
	}
}

// New creates a session for agent talking to the gateway at gatewayURL through chatter.
func New(agent, gatewayURL string, chatter Chatter, opts ...Option) *Session {
	s := &Session{
		Agent:   agent,
		Gateway: gatewayURL,
		chatter: chatter,
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.styles = newStyles(lipgloss.NewRenderer(s.out))
	return s
}

// SessionID returns the id exchanges are recorded under, or "" without a recorder
func (s *Session) SessionID() string {
	return s.sessionID
}

// FallbackMessage is printed in place of a reply when the gateway call fails.
// Nothing is actually queued.
func FallbackMessage(agent, message string) string {
	return fmt.Sprintf("[%s] Gateway offline. Message queued: '%s'", agent, message)
}

type line struct {
	text string
	err  error
}

// Run drives the loop until exit/quit, end of input or ctx cancellation.
// Gateway failures never end the session.
func (s *Session) Run(ctx context.Context) error {
	s.printBanner()

	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)
	go s.readLines(lines, done)

	for {
		s.printPrompt()

		var next line
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.printEnd()
			return nil
		case next = <-lines:
		}

		eof := next.err != nil
		if eof && !errors.Is(next.err, io.EOF) {
			s.logger.Debug("input read failed", zap.Error(next.err))
		}

		input := strings.TrimSpace(next.text)
		if input == "exit" || input == "quit" {
			break
		}
		if input != "" {
			s.exchange(ctx, input)
		}
		if eof || ctx.Err() != nil {
			if input == "" {
				fmt.Fprintln(s.out)
			}
			break
		}
	}

	s.printEnd()
	return nil
}

// readLines delivers one line per receive. It stops after the first read
// error or once done is closed.
func (s *Session) readLines(lines chan<- line, done <-chan struct{}) {
	reader := bufio.NewReader(s.in)
	for {
		text, err := reader.ReadString('\n')
		select {
		case lines <- line{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) exchange(ctx context.Context, message string) {
	reply, err := s.chatter.Chat(ctx, s.Agent, message)

	offline := err != nil
	text := reply
	if offline {
		s.logger.Debug("gateway call failed",
			zap.String("agent", s.Agent),
			zap.String("gateway", s.Gateway),
			zap.Error(err))
		text = FallbackMessage(s.Agent, message)
	} else {
		text = s.format(reply)
		s.copy(reply)
	}

	fmt.Fprintf(s.out, "%s %s\n\n", s.styles.agent.Render(s.Agent), text)

	if s.recorder != nil {
		recorded := reply
		if offline {
			recorded = text
		}
		rerr := s.recorder.Record(ctx, history.Exchange{
			SessionID: s.sessionID,
			Agent:     s.Agent,
			Message:   message,
			Reply:     recorded,
			Offline:   offline,
		})
		if rerr != nil {
			s.logger.Warn("failed to record exchange", zap.Error(rerr))
		}
	}
}

func (s *Session) format(reply string) string {
	if s.formatter == nil {
		return reply
	}
	out, err := s.formatter.Render(reply)
	if err != nil {
		s.logger.Debug("markdown render failed", zap.Error(err))
		return reply
	}
	return out
}

func (s *Session) copy(reply string) {
	if s.copyFn == nil || reply == "" {
		return
	}
	if err := s.copyFn(reply); err != nil {
		s.logger.Debug("clipboard copy failed", zap.Error(err))
	}
}
