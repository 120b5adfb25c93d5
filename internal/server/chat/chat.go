// Package chat answers questions about the user's notes through an
// OpenAI-compatible chat completion endpoint.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

const SystemPrompt = "You are an AI assistant built into a note-taking app. Use the user's notes along with your general knowledge to answer questions clearly and helpfully. Keep your responses short and focused unless the user specifically asks for more detail—in that case, provide a slightly more in-depth explanation. If the user asks who created you, you can say you were made by Narendra Meloni."

const (
	noNotes    = "No notes provided."
	noResponse = "No response."
)

var (
	leadingThink = regexp.MustCompile(`^Bot: <think>[\s\S]*?</think>\s*`)
	anyThink     = regexp.MustCompile(`<think>[\s\S]*?</think>\s*`)
)

// Completer sends one system and one user message and returns the first
// choice's content, or "" when the model returned none.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Service struct {
	completer Completer
	logger    logging.Logger
}

func NewService(c Completer, l logging.Logger) *Service {
	return &Service{completer: c, logger: l.With("module", "chat")}
}

// NotesText renders the notes block of the prompt. A nil slice means the
// caller sent no notes at all.
func NotesText(notes []api.NoteSummary) string {
	if notes == nil {
		return noNotes
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("- %s: %s", n.Title, n.Markdown))
	}
	return strings.Join(lines, "\n")
}

// Prompt is the user turn sent to the model: the notes followed by the latest
// message quoted.
func Prompt(messages []api.Message, notes []api.NoteSummary) string {
	latest := ""
	if len(messages) > 0 {
		latest = messages[len(messages)-1].Content
	}
	return "The user has the following notes:\n" + NotesText(notes) +
		"\n\nBased on the notes, answer the following question:\n\"" + latest + "\""
}

// Clean drops reasoning blocks some models emit before the answer.
func Clean(reply string) string {
	reply = leadingThink.ReplaceAllString(reply, "")
	reply = anyThink.ReplaceAllString(reply, "")
	return strings.TrimSpace(reply)
}

// Reply answers the latest message of the transcript.
func (s *Service) Reply(ctx context.Context, messages []api.Message, notes []api.NoteSummary) (string, error) {
	out, err := s.completer.Complete(ctx, SystemPrompt, Prompt(messages, notes))
	if err != nil {
		return "", err
	}
	if out == "" {
		out = noResponse
	}
	reply := Clean(out)
	s.logger.Debug(ctx, "chat reply", "messages", len(messages), "notes", len(notes), "chars", len(reply))
	return reply, nil
}
