// Package kai is the text-in, text-out study assistant. Model backends sit
// behind Completer; when none answers in time the assistant replies with a
// canned line chosen by the current code status.
package kai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/unowned-ai/rpager/pkg/appstate"
	"github.com/unowned-ai/rpager/pkg/logging"
)

const (
	// MaxHistory is how many messages the assistant remembers.
	MaxHistory = 10
	// PromptHistory is how many of them go into each prompt.
	PromptHistory  = 6
	DefaultTimeout = 30 * time.Second
	DefaultName    = "Doctor"
)

var ErrEmptyReply = errors.New("completer returned an empty reply")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completion is everything a backend needs for one reply. Prompt is the
// flattened form for backends without chat support.
type Completion struct {
	System  string
	History []Message
	Message string
	Prompt  string
}

type Completer interface {
	Name() string
	Complete(ctx context.Context, c Completion) (string, error)
}

type Request struct {
	Message    string              `json:"message"`
	CodeStatus appstate.CodeStatus `json:"code_status,omitempty"`
	// Context names what the user is looking at, e.g. "Flashcards".
	Context string `json:"context,omitempty"`
}

type Reply struct {
	Text string `json:"text"`
	// Source is the completer that answered, empty for a fallback.
	Source   string `json:"source,omitempty"`
	Fallback bool   `json:"fallback"`
}

type Options struct {
	// StudentName is how prompts address the user.
	StudentName string
	Timeout     time.Duration
}

type Assistant struct {
	completers []Completer
	name       string
	timeout    time.Duration
	log        logging.Logger

	mu      sync.Mutex
	history []Message
}

// NewAssistant tries completers in order for every message.
func NewAssistant(log logging.Logger, opts Options, completers ...Completer) *Assistant {
	if log == nil {
		log = logging.Nop()
	}
	if opts.StudentName == "" {
		opts.StudentName = DefaultName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Assistant{
		completers: completers,
		name:       opts.StudentName,
		timeout:    opts.Timeout,
		log:        log.With("component", "kai"),
	}
}

// Send never fails: every backend error becomes a fallback reply.
func (a *Assistant) Send(ctx context.Context, req Request) Reply {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return Reply{}
	}
	req.Message = msg

	a.mu.Lock()
	recent := tail(a.history, PromptHistory)
	a.remember(Message{Role: RoleUser, Content: msg})
	a.mu.Unlock()

	c := Completion{
		System:  systemPrompt(a.name, req.CodeStatus),
		History: recent,
		Message: msg,
	}
	c.Prompt = buildPrompt(a.name, c, req.Context)

	for _, completer := range a.completers {
		text, err := a.complete(ctx, completer, c)
		if err != nil {
			a.log.Warn(ctx, "completer failed", "completer", completer.Name(), "error", err)
			continue
		}
		a.mu.Lock()
		a.remember(Message{Role: RoleAssistant, Content: text})
		a.mu.Unlock()
		return Reply{Text: text, Source: completer.Name()}
	}

	return Reply{Text: Fallback(req), Fallback: true}
}

func (a *Assistant) complete(ctx context.Context, completer Completer, c Completion) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := completer.Complete(ctx, c)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// remember appends m and keeps the last MaxHistory messages. Callers hold mu.
func (a *Assistant) remember(m Message) {
	a.history = append(a.history, m)
	if len(a.history) > MaxHistory {
		a.history = append([]Message(nil), a.history[len(a.history)-MaxHistory:]...)
	}
}

func (a *Assistant) History() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Message(nil), a.history...)
}

func (a *Assistant) ClearHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

func tail(messages []Message, n int) []Message {
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	return append([]Message(nil), messages...)
}
