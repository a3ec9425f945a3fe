package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Analyze(ctx context.Context, imagePath string) error
	History(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
	Chat(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the dermascan CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("derma %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: analyze <image>, history, delete <id>, clear-history, chat, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "analyze":
			if len(args) == 0 {
				printlnFn("Usage: analyze <image-path>")
				continue
			}
			_ = a.Analyze(ctx, args[0])

		case "h", "history":
			_ = a.History(ctx)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "clear-history":
			_ = a.ClearHistory(ctx)

		case "chat":
			_ = a.Chat(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
