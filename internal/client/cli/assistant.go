package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/assistant"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/client/router"
	"github.com/dmitrijs2005/entrust/internal/client/services"
)

// Ask opens the AI view and sends topic to the assistant.
func (a *App) Ask(ctx context.Context, args []string) error {
	topic := strings.Join(args, " ")
	if topic == "" {
		v, err := getSimpleText(a.reader, "What would you like guidance on?", a.out)
		if err != nil {
			return err
		}
		topic = v
	}
	if strings.TrimSpace(topic) == "" {
		return errors.New("usage: ask <topic>")
	}

	a.apply(router.Action{Kind: router.Navigate, To: router.AI})

	reply, err := a.conversation.Ask(ctx, topic)
	if errors.Is(err, services.ErrBusy) {
		a.notify(notice.Warningf("Please wait for the previous reply."))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Assistant:", reply)
	return nil
}

func (a *App) Transcript(ctx context.Context, args []string) error {
	entries := a.conversation.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No conversation yet.")
		return nil
	}
	for _, e := range entries {
		who := "You"
		if e.Role == assistant.RoleAssistant {
			who = "Assistant"
		}
		fmt.Fprintf(a.out, "%s: %s\n", who, e.Text)
	}
	return nil
}
