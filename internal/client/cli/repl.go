package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Views(ctx context.Context, args []string) error
	Go(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Recover(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Card(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Preview(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error
	Ask(ctx context.Context, args []string) error
	Transcript(ctx context.Context, args []string) error
	Members(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: views, go <view>, register, login, recover, ask <topic>, transcript, exit"
	helpMember = "Available commands: views, go <view>, card, edit, preview, download png|pdf, reload, ask <topic>, transcript, logout, exit"
	helpAdmin  = "Admin commands: members, verify <id> <status>"
)

// runREPL reads one command per line from reader and dispatches it to a.
//
// The first token is the command and the remaining tokens are passed as
// arguments. The loop exits on EOF or when the user types "exit" or "quit".
// Handler errors are printed and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cot> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			if a.isAdmin() {
				printlnFn(helpAdmin)
			}

		case "views":
			cmdErr = a.Views(ctx, args)

		case "go":
			cmdErr = a.Go(ctx, args)

		case "register":
			cmdErr = a.Register(ctx, args)

		case "login":
			cmdErr = a.Login(ctx, args)

		case "recover":
			cmdErr = a.Recover(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx, args)

		case "card", "show":
			cmdErr = a.Card(ctx, args)

		case "edit":
			cmdErr = a.Edit(ctx, args)

		case "preview":
			cmdErr = a.Preview(ctx, args)

		case "download":
			cmdErr = a.Download(ctx, args)

		case "reload":
			cmdErr = a.Reload(ctx, args)

		case "ask":
			cmdErr = a.Ask(ctx, args)

		case "transcript":
			cmdErr = a.Transcript(ctx, args)

		case "members":
			cmdErr = a.Members(ctx, args)

		case "verify":
			cmdErr = a.Verify(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
