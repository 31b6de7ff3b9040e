package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studyplanner/internal/client/services"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	BioLogin(ctx context.Context) error
	Identity(ctx context.Context) error
	Forgot(ctx context.Context) error
	Logout(ctx context.Context) error
	SetPIN(ctx context.Context) error

	Add(ctx context.Context) error
	List(ctx context.Context, filter string) error
	Search(ctx context.Context, query string) error
	Show(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	Focus(ctx context.Context) error
	EndFocus(ctx context.Context) error
	Status(ctx context.Context) error

	Me(ctx context.Context) error
	Prefs(ctx context.Context) error
	Notify(ctx context.Context, arg string) error
	Theme(ctx context.Context, arg string) error
	Duration(ctx context.Context, arg string) error

	Next(ctx context.Context) error
	Progress(ctx context.Context) error
	StartSession(ctx context.Context, args string) error
	EndSession(ctx context.Context) error

	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, biologin, identity, forgot, setpin, " +
		"add, list, search, show, toggle, delete, focus, endfocus, status, prefs, exit"
	helpSignedIn = "Available commands: add, (l)ist [pending|completed], search <q>, show <id>, " +
		"toggle <id>, delete <id>, focus, endfocus, status, me, prefs, notify on|off, " +
		"theme light|dark, duration <minutes>, next, progress, start <id> [minutes], end, " +
		"notifications, read <id>, clear, setpin, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit". Command
// errors are printed as their user-facing message and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sp %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "biologin":
			cmdErr = a.BioLogin(ctx)
		case "identity":
			cmdErr = a.Identity(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "setpin":
			cmdErr = a.SetPIN(ctx)

		case "add":
			cmdErr = a.Add(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, arg)
		case "search":
			cmdErr = a.Search(ctx, rest)
		case "show", "toggle", "delete":
			if arg == "" {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				cmdErr = a.Show(ctx, arg)
			case "toggle":
				cmdErr = a.Toggle(ctx, arg)
			default:
				cmdErr = a.Delete(ctx, arg)
			}

		case "focus":
			cmdErr = a.Focus(ctx)
		case "endfocus":
			cmdErr = a.EndFocus(ctx)
		case "status":
			cmdErr = a.Status(ctx)

		case "me":
			cmdErr = a.Me(ctx)
		case "prefs":
			cmdErr = a.Prefs(ctx)
		case "notify":
			cmdErr = a.Notify(ctx, arg)
		case "theme":
			cmdErr = a.Theme(ctx, arg)
		case "duration":
			cmdErr = a.Duration(ctx, arg)

		case "next":
			cmdErr = a.Next(ctx)
		case "progress":
			cmdErr = a.Progress(ctx)
		case "start":
			cmdErr = a.StartSession(ctx, rest)
		case "end":
			cmdErr = a.EndSession(ctx)

		case "notifications":
			cmdErr = a.Notifications(ctx)
		case "read":
			if arg == "" {
				printlnFn("Usage: read <id>")
				continue
			}
			cmdErr = a.Read(ctx, arg)
		case "clear":
			cmdErr = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", services.UserMessage(cmdErr))
		}
	}
}
