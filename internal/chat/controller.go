// Package chat implements the request controller: it accepts a user
// submission, records it in the transcript, calls the prompt endpoint and
// records the reply or a fallback error message.
package chat

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"agentchat/internal/state"
	"agentchat/internal/transcript"
)

const DefaultFallback = "Sorry, something went wrong."

// Prompter is the remote prompt-completion endpoint.
type Prompter interface {
	Prompt(ctx context.Context, text string) (string, error)
}

// Exchange is one accepted submission awaiting its reply.
type Exchange struct {
	ID        uint64
	Text      string
	UserIndex int

	settled bool
}

// Outcome is the result of Send, applied to the transcript by Settle.
type Outcome struct {
	Exchange *Exchange
	Reply    string
	Err      error
}

// Controller allows at most one exchange in flight. Begin and Settle mutate
// state; Send only performs I/O and may run on any goroutine.
type Controller struct {
	store    *transcript.Store
	prompter Prompter
	fallback string
	logger   *log.Logger

	draft   *state.Cell[string]
	pending *state.Cell[bool]

	mu     sync.Mutex
	seq    uint64
	active *Exchange
}

type Option func(*Controller)

// WithFallback sets the content of error messages. Blank keeps the default.
func WithFallback(text string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(text) != "" {
			c.fallback = text
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(store *transcript.Store, prompter Prompter, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		prompter: prompter,
		fallback: DefaultFallback,
		logger:   log.New(io.Discard, "", 0),
		draft:    state.NewCell(""),
		pending:  state.NewCell(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Transcript() *transcript.Store { return c.store }
func (c *Controller) Draft() state.Value[string]    { return c.draft }
func (c *Controller) Pending() state.Value[bool]    { return c.pending }
func (c *Controller) Fallback() string              { return c.fallback }

// SetDraft records the current contents of the input line.
func (c *Controller) SetDraft(text string) {
	if c.draft.Get() == text {
		return
	}
	c.draft.Set(text)
}

// Begin accepts text when it is not blank and nothing is pending. It appends
// the user message, clears the draft and marks the controller pending.
// Rejected submissions change nothing.
func (c *Controller) Begin(text string) (*Exchange, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, false
	}
	c.seq++
	ex := &Exchange{ID: c.seq, Text: text}
	c.active = ex
	c.mu.Unlock()

	ex.UserIndex = c.store.Append(transcript.Message{Role: transcript.RoleUser, Content: text})
	c.draft.Set("")
	c.pending.Set(true)
	return ex, true
}

// Send calls the prompt endpoint for ex. It does not touch controller state.
func (c *Controller) Send(ctx context.Context, ex *Exchange) Outcome {
	reply, err := c.prompter.Prompt(ctx, ex.Text)
	return Outcome{Exchange: ex, Reply: reply, Err: err}
}

// Settle appends the agent reply, or the fallback error message when the call
// failed, and clears pending. Outcomes for anything but the active exchange,
// and repeated outcomes for it, are ignored.
func (c *Controller) Settle(out Outcome) bool {
	c.mu.Lock()
	if out.Exchange == nil || c.active != out.Exchange || out.Exchange.settled {
		c.mu.Unlock()
		return false
	}
	out.Exchange.settled = true
	c.mu.Unlock()

	if out.Err != nil {
		c.logger.Printf("prompt #%d failed: %v", out.Exchange.ID, out.Err)
		c.store.Append(transcript.Message{Role: transcript.RoleError, Content: c.fallback})
	} else {
		c.store.Append(transcript.Message{Role: transcript.RoleAgent, Content: out.Reply})
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
	c.pending.Set(false)
	return true
}

// Submit runs a whole exchange synchronously and reports whether text was
// accepted.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	ex, ok := c.Begin(text)
	if !ok {
		return false
	}
	c.Settle(c.Send(ctx, ex))
	return true
}
