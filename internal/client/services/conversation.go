package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/entrust/internal/assistant"
	"github.com/dmitrijs2005/entrust/internal/logging"
)

// ErrBusy means a question is still waiting for its reply.
var ErrBusy = errors.New("a reply is still on its way")

// AskAPI is the server's assistant endpoint.
type AskAPI interface {
	Ask(ctx context.Context, topic string) (string, error)
}

// Conversation keeps the assistant transcript for one client session. Only
// one question may be outstanding at a time.
type Conversation struct {
	api        AskAPI
	transcript assistant.Transcript
	busy       atomic.Bool
	logger     logging.Logger
}

func NewConversation(api AskAPI, logger logging.Logger) *Conversation {
	return &Conversation{api: api, logger: logger.With("module", "conversation")}
}

// Ask records topic and the reply. When the server cannot be reached the
// reply is the local fallback line.
func (c *Conversation) Ask(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errors.New("empty topic")
	}
	if !c.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer c.busy.Store(false)

	c.transcript.Append(assistant.RoleUser, topic)

	reply, err := c.api.Ask(ctx, topic)
	switch {
	case err != nil:
		c.logger.Warn(ctx, "assistant request failed", "error", err)
		reply = assistant.FallbackError
	case strings.TrimSpace(reply) == "":
		reply = assistant.FallbackEmpty
	}

	c.transcript.Append(assistant.RoleAssistant, reply)
	return reply, nil
}

func (c *Conversation) Entries() []assistant.Entry { return c.transcript.Entries() }

func (c *Conversation) Busy() bool { return c.busy.Load() }

// Reset clears the transcript.
func (c *Conversation) Reset() { c.transcript.Reset() }
