package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/entrust/internal/assistant"
	"github.com/dmitrijs2005/entrust/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_AskRecordsTranscript(t *testing.T) {
	api := newFakeAPI()
	api.askReply = "Fear not. (Isaiah 41:10)"
	c := NewConversation(api, logging.Nop{})

	reply, err := c.Ask(context.Background(), "  fear ")
	require.NoError(t, err)
	assert.Equal(t, "Fear not. (Isaiah 41:10)", reply)
	assert.Equal(t, []assistant.Entry{
		{Role: assistant.RoleUser, Text: "fear"},
		{Role: assistant.RoleAssistant, Text: "Fear not. (Isaiah 41:10)"},
	}, c.Entries())

	c.Reset()
	assert.Empty(t, c.Entries())
}

func TestConversation_FallbackWhenUnreachable(t *testing.T) {
	api := newFakeAPI()
	api.askErr = errors.New("connection refused")
	c := NewConversation(api, logging.Nop{})

	reply, err := c.Ask(context.Background(), "hope")
	require.NoError(t, err)
	assert.Equal(t, assistant.FallbackError, reply)
	assert.Len(t, c.Entries(), 2)
}

func TestConversation_FallbackOnEmptyReply(t *testing.T) {
	api := newFakeAPI()
	api.askReply = "  "
	c := NewConversation(api, logging.Nop{})

	reply, err := c.Ask(context.Background(), "hope")
	require.NoError(t, err)
	assert.Equal(t, assistant.FallbackEmpty, reply)
	assert.Equal(t, assistant.FallbackEmpty, c.Entries()[1].Text)
}

func TestConversation_EmptyTopic(t *testing.T) {
	c := NewConversation(newFakeAPI(), logging.Nop{})
	_, err := c.Ask(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, c.Entries())
}

func TestConversation_RejectsSecondAskWhileBusy(t *testing.T) {
	api := newFakeAPI()
	api.askReply = "ok"
	api.askBlock = make(chan struct{})
	c := NewConversation(api, logging.Nop{})

	done := make(chan struct{})
	go func() {
		_, _ = c.Ask(context.Background(), "first")
		close(done)
	}()

	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)
	_, err := c.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(api.askBlock)
	<-done
	assert.False(t, c.Busy())
	assert.Len(t, c.Entries(), 2)
}
