package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	SetLocation(ctx context.Context) error
	SetAvatar(ctx context.Context, path string) error
	StartCamera(ctx context.Context) error
	Snap(ctx context.Context) error
	Retake(ctx context.Context) error
	StopCamera(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Search(ctx context.Context) error
	Find(ctx context.Context, query string) error
	More(ctx context.Context) error
	NewSearch(ctx context.Context) error
	History(ctx context.Context) error
	ShowHistory(ctx context.Context, n int) error
}

const (
	helpGuest  = "Available commands: signup, login, help, exit"
	helpMember = "Available commands:\n" +
		"  profile | location | avatar <file>           account\n" +
		"  camera | snap | retake | stop | upload <file> capture an image\n" +
		"  search | find <text> | more | new            shop\n" +
		"  history | show <n>                           past searches\n" +
		"  logout | exit"
)

// runREPL starts a simple read–eval–print loop for the snapshop CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Everything after the command
// word is its argument. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Only help, signup, login and exit work without a session; every other
// command asks the user to log in first.
//
// Errors returned by handlers are printed as one-line messages and the loop
// keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("snapshop %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}
			continue
		case "signup":
			report(a.Signup(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				printlnFn("Please login or signup first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "profile":
			report(a.Profile(ctx))
		case "location":
			report(a.SetLocation(ctx))
		case "avatar":
			if arg == "" {
				printlnFn("Usage: avatar <image file>")
				continue
			}
			report(a.SetAvatar(ctx, arg))
		case "camera":
			report(a.StartCamera(ctx))
		case "snap":
			report(a.Snap(ctx))
		case "retake":
			report(a.Retake(ctx))
		case "stop":
			report(a.StopCamera(ctx))
		case "upload":
			if arg == "" {
				printlnFn("Usage: upload <image file>")
				continue
			}
			report(a.Upload(ctx, arg))
		case "search":
			report(a.Search(ctx))
		case "find":
			if arg == "" {
				printlnFn("Usage: find <what you are looking for>")
				continue
			}
			report(a.Find(ctx, arg))
		case "more":
			report(a.More(ctx))
		case "new":
			report(a.NewSearch(ctx))
		case "history":
			report(a.History(ctx))
		case "show":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				printlnFn("Usage: show <history number>")
				continue
			}
			report(a.ShowHistory(ctx, n))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var memberCommands = map[string]bool{
	"logout": true, "profile": true, "location": true, "avatar": true,
	"camera": true, "snap": true, "retake": true, "stop": true, "upload": true,
	"search": true, "find": true, "more": true, "new": true,
	"history": true, "show": true,
}

func isKnown(cmd string) bool {
	return memberCommands[cmd]
}

func report(err error) {
	if err != nil {
		printlnFn(userMessage(err))
	}
}

// userMessage renders err as the inline message shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return "Camera not available or permission denied. Please try uploading an image."
	case errors.Is(err, common.ErrDuplicateAccount):
		return "An account with this email already exists."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrCredentialsRequired):
		return "Email and password are required."
	case errors.Is(err, common.ErrNoSession):
		return "Please login or signup first."
	default:
		return "Error: " + err.Error()
	}
}
