// Package assistant proxies devotional questions to a text-generation model
// and guarantees a reply: every failure degrades to a fixed scripture line.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/logging"
)

const (
	FallbackMissingKey = "The Lord is my shepherd; I shall not want. He makes me lie down in green pastures. (Psalm 23:1-2)"
	FallbackError      = "God is our refuge and strength, an ever-present help in trouble. (Psalm 46:1)"
	FallbackEmpty      = "May God's grace and peace be multiplied to you today. Stay strong in the Lord."
)

const (
	DefaultModel = "gemini-1.5-flash"

	Persona = "You are a warm, encouraging spiritual leader. Your goal is to provide comfort and biblical truth. " +
		"Keep responses concise (under 100 words), focused on hope, and always include one specific scripture reference."

	promptTemplate = "Provide a short, encouraging spiritual word and a relevant Bible verse (with citation) for someone " +
		"struggling with or seeking guidance on: %s. Speak as a warm, supportive ministry leader from City of Truth Ministries."
)

// ErrMissingKey is returned by generators constructed without a credential.
var ErrMissingKey = errors.New("text generation credential is not configured")

// Prompt wraps a user topic in the fixed framing sent to the model.
func Prompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic)
}

// Generator produces a reply for a single prompt. Implementations are
// stateless: no history is sent along.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Outcome classifies how a reply was produced.
type Outcome string

const (
	OutcomeGenerated  Outcome = "generated"
	OutcomeMissingKey Outcome = "missing_key"
	OutcomeError      Outcome = "error"
	OutcomeEmpty      Outcome = "empty"
)

// Observer is notified of each outcome, e.g. to count them.
type Observer func(Outcome)

type Assistant struct {
	gen     Generator
	log     logging.Logger
	observe Observer
}

// New builds an Assistant. A nil gen behaves as a missing credential.
func New(gen Generator, log logging.Logger, observe Observer) *Assistant {
	if log == nil {
		log = logging.Nop{}
	}
	if observe == nil {
		observe = func(Outcome) {}
	}
	return &Assistant{gen: gen, log: log.With("module", "assistant"), observe: observe}
}

// Ask always returns displayable text. Failures are logged and replaced by
// the matching fallback line.
func (a *Assistant) Ask(ctx context.Context, topic string) string {
	reply, outcome := a.ask(ctx, topic)
	a.observe(outcome)
	return reply
}

func (a *Assistant) ask(ctx context.Context, topic string) (string, Outcome) {
	if a.gen == nil {
		a.log.Warn(ctx, "assistant credential missing, using fallback")
		return FallbackMissingKey, OutcomeMissingKey
	}

	reply, err := a.gen.Generate(ctx, Prompt(topic))
	switch {
	case errors.Is(err, ErrMissingKey):
		a.log.Warn(ctx, "assistant credential missing, using fallback")
		return FallbackMissingKey, OutcomeMissingKey
	case err != nil:
		a.log.Error(ctx, "assistant generation failed", "error", err)
		return FallbackError, OutcomeError
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		a.log.Warn(ctx, "assistant returned an empty reply")
		return FallbackEmpty, OutcomeEmpty
	}
	return reply, OutcomeGenerated
}
