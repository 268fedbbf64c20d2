package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestAssistant_Ask(t *testing.T) {
	tests := []struct {
		name    string
		gen     Generator
		want    string
		outcome Outcome
	}{
		{"generated", &fakeGenerator{reply: "  Be strong. (Joshua 1:9)\n"}, "Be strong. (Joshua 1:9)", OutcomeGenerated},
		{"missing key", nil, FallbackMissingKey, OutcomeMissingKey},
		{"missing key from generator", &fakeGenerator{err: ErrMissingKey}, FallbackMissingKey, OutcomeMissingKey},
		{"transport error", &fakeGenerator{err: errors.New("dial tcp: refused")}, FallbackError, OutcomeError},
		{"empty reply", &fakeGenerator{reply: "   "}, FallbackEmpty, OutcomeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Outcome
			a := New(tt.gen, nil, func(o Outcome) { got = append(got, o) })

			assert.Equal(t, tt.want, a.Ask(context.Background(), "anxiety"))
			assert.Equal(t, []Outcome{tt.outcome}, got)
		})
	}
}

func TestAssistant_PromptFraming(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	New(gen, nil, nil).Ask(context.Background(), "forgiveness")

	assert.Contains(t, gen.prompt, "seeking guidance on: forgiveness.")
	assert.Contains(t, gen.prompt, "City of Truth Ministries")
}

func TestNewGenAIGenerator_MissingKey(t *testing.T) {
	g, err := NewGenAIGenerator(context.Background(), "", "")
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Nil(t, g)
}

func TestNewGenAIGenerator_DefaultModel(t *testing.T) {
	g, err := NewGenAIGenerator(context.Background(), "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, g.Model())
}

func TestTranscript(t *testing.T) {
	var tr Transcript
	tr.Append(RoleUser, "hope")
	tr.Append(RoleAssistant, "reply")

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Role: RoleUser, Text: "hope"}, entries[0])

	entries[0].Text = "changed"
	assert.Equal(t, "hope", tr.Entries()[0].Text)

	tr.Reset()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Entries())
}
