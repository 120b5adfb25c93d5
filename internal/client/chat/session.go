// Package chat keeps the transcript of one assistant conversation and plays
// replies back progressively, the way a typing indicator would.
package chat

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

// DefaultTick is the delay between two revealed runes.
const DefaultTick = 20 * time.Millisecond

// Completer posts a transcript plus the user's notes and returns the reply.
type Completer interface {
	Chat(ctx context.Context, messages []models.ChatMessage, notes []models.Note) (string, error)
}

// NoteSource provides the resolved notes sent along with every request.
type NoteSource interface {
	ListResolved(ctx context.Context) ([]models.Note, error)
}

// Session is safe for concurrent use: Stop is expected to be called from a
// different goroutine than Send.
type Session struct {
	client Completer
	notes  NoteSource
	tick   time.Duration
	logger logging.Logger

	mu         sync.Mutex
	transcript []models.ChatMessage
	busy       bool
	stop       chan struct{}
}

// NewSession creates an empty transcript. A non-positive tick reveals
// replies at once.
func NewSession(c Completer, notes NoteSource, tick time.Duration, l logging.Logger) *Session {
	return &Session{client: c, notes: notes, tick: tick, logger: l.With("module", "chat")}
}

// Transcript returns a copy of the messages so far.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// Busy reports whether a reply is being fetched or revealed.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Send appends text as a user message, posts the transcript and starts
// revealing the reply into sink, one rune per tick. The returned channel is
// closed once the reveal finished or was stopped. Blank input is ignored and
// returns a closed channel. While a previous reply is outstanding Send
// returns common.ErrBusy.
func (s *Session) Send(ctx context.Context, text string, sink func(partial string)) (<-chan struct{}, error) {
	done := make(chan struct{})
	if strings.TrimSpace(text) == "" {
		close(done)
		return done, nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, common.ErrBusy
	}
	s.busy = true
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleUser, Content: text})
	history := slices.Clone(s.transcript)
	s.mu.Unlock()

	reply, err := s.ask(ctx, history)
	if err != nil {
		s.logger.Error(ctx, "chat request failed", "error", err)
		s.release()
		return nil, err
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.RoleAssistant})
	idx := len(s.transcript) - 1
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.reveal(idx, []rune(reply), sink, stop, done)
	return done, nil
}

// Stop interrupts the reveal in progress. The transcript keeps what was
// revealed so far. A request still in flight is not cancelled.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Session) ask(ctx context.Context, history []models.ChatMessage) (string, error) {
	notes, err := s.notes.ListResolved(ctx)
	if err != nil {
		return "", err
	}
	return s.client.Chat(ctx, history, notes)
}

func (s *Session) reveal(idx int, reply []rune, sink func(string), stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer s.release()

	show := func(n int) {
		partial := string(reply[:n])
		s.mu.Lock()
		s.transcript[idx].Content = partial
		s.mu.Unlock()
		if sink != nil {
			sink(partial)
		}
	}

	if s.tick <= 0 {
		show(len(reply))
		return
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for n := 1; n <= len(reply); n++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			show(n)
		}
	}
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.stop = nil
	s.mu.Unlock()
}
