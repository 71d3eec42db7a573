package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Retry(ctx context.Context, args []string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("rb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist [remote [all]], show <id>, delete <id>, retry <id>, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, add, (l)ist, show <id>, delete <id>, retry <id>, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "retry":
			_ = a.Retry(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
