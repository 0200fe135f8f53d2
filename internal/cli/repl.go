package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	hasSession() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, title string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, title string) error
	Rename(ctx context.Context, oldTitle, newTitle string) error
	Remove(ctx context.Context, title string) error
	Flush(ctx context.Context) error
	Rooms(ctx context.Context) error
	MakeRoom(ctx context.Context) error
	Join(ctx context.Context, roomID string) error
	Use(ctx context.Context, target string) error
	Upload(ctx context.Context, name, path string) error
	Download(ctx context.Context, name, path string) error
	Files(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the vault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, context cancellation, or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		printlnFn(fmt.Sprintf("vault> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.hasSession() {
				printlnFn("Available commands: (l)ist, show <title>, new, edit <title>, rename <old> <new>, rm <title>, flush,")
				printlnFn("  rooms, mkroom, join <id>, use <id|personal>, upload <name> <path>, download <name> <path>, files, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <title>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "new":
			_ = a.New(ctx)

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <title>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "rename":
			if len(args) != 2 {
				printlnFn("Usage: rename <old> <new>")
				continue
			}
			_ = a.Rename(ctx, args[0], args[1])

		case "rm":
			if len(args) != 1 {
				printlnFn("Usage: rm <title>")
				continue
			}
			_ = a.Remove(ctx, args[0])

		case "flush", "sync":
			_ = a.Flush(ctx)

		case "rooms":
			_ = a.Rooms(ctx)

		case "mkroom":
			_ = a.MakeRoom(ctx)

		case "join":
			if len(args) != 1 {
				printlnFn("Usage: join <room-id>")
				continue
			}
			_ = a.Join(ctx, args[0])

		case "use":
			if len(args) != 1 {
				printlnFn("Usage: use <room-id|personal>")
				continue
			}
			_ = a.Use(ctx, args[0])

		case "upload":
			if len(args) != 2 {
				printlnFn("Usage: upload <name> <path>")
				continue
			}
			_ = a.Upload(ctx, args[0], args[1])

		case "download":
			if len(args) != 2 {
				printlnFn("Usage: download <name> <path>")
				continue
			}
			_ = a.Download(ctx, args[0], args[1])

		case "files":
			_ = a.Files(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
