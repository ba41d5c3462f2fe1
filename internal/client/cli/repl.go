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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	isAdmin(ctx context.Context) bool

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Profile(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	Areas(ctx context.Context) error
	Area(ctx context.Context, slug string) error
	Show(ctx context.Context, id string) error
	Fav(ctx context.Context, id string) error
	Unfav(ctx context.Context, id string) error
	Favs(ctx context.Context) error
	ClearFavs(ctx context.Context) error

	CreateDashboard(ctx context.Context) error
	EditDashboard(ctx context.Context, id string) error
	DeleteDashboard(ctx context.Context, id string) error
	CreateArea(ctx context.Context) error
	EditArea(ctx context.Context, id string) error
	DeleteArea(ctx context.Context, id string) error
}

// commands taking exactly one argument, with their usage line
var oneArg = map[string]string{
	"area":        "Usage: area <slug>",
	"show":        "Usage: show <dashboardID>",
	"fav":         "Usage: fav <dashboardID>",
	"unfav":       "Usage: unfav <dashboardID>",
	"dash-edit":   "Usage: dash-edit <dashboardID>",
	"dash-delete": "Usage: dash-delete <dashboardID>",
	"area-edit":   "Usage: area-edit <areaID>",
	"area-delete": "Usage: area-delete <areaID>",
}

// runREPL starts a simple read–eval–print loop for the portal CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as arguments, and dispatches to methods on 'a'. Unknown commands
// are reported back to the user. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current user and page (from statusFn):
//
//	Always:
//	  - help, login, forgot, reset, exit | quit
//
//	Logged in:
//	  - whoami, logout, profile, passwd
//	  - areas, area <slug>, show <id>
//	  - fav <id>, unfav <id>, favs, clearfavs
//
//	Admin:
//	  - dash-create, dash-edit <id>, dash-delete <id>
//	  - area-create, area-edit <id>, area-delete <id>
//
// Errors returned by command handlers are not printed here; handlers report
// to the user themselves. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("portal %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if usage, ok := oneArg[cmd]; ok && len(args) != 1 {
			printlnFn(usage)
			continue
		}

		switch cmd {
		case "help":
			printHelp(ctx, a)

		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "forgot":
			_ = a.ForgotPassword(ctx)
		case "reset":
			_ = a.ResetPassword(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "passwd":
			_ = a.ChangePassword(ctx)

		case "areas":
			_ = a.Areas(ctx)
		case "area":
			_ = a.Area(ctx, args[0])
		case "show":
			_ = a.Show(ctx, args[0])
		case "fav":
			_ = a.Fav(ctx, args[0])
		case "unfav":
			_ = a.Unfav(ctx, args[0])
		case "favs":
			_ = a.Favs(ctx)
		case "clearfavs":
			_ = a.ClearFavs(ctx)

		case "dash-create":
			_ = a.CreateDashboard(ctx)
		case "dash-edit":
			_ = a.EditDashboard(ctx, args[0])
		case "dash-delete":
			_ = a.DeleteDashboard(ctx, args[0])
		case "area-create":
			_ = a.CreateArea(ctx)
		case "area-edit":
			_ = a.EditArea(ctx, args[0])
		case "area-delete":
			_ = a.DeleteArea(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func printHelp(ctx context.Context, a execIface) {
	if !a.isLoggedIn(ctx) {
		printlnFn("Available commands: login, forgot, reset, help, exit")
		return
	}
	printlnFn("Available commands: areas, area <slug>, show <id>, fav <id>, unfav <id>, favs, clearfavs, whoami, profile, passwd, logout, help, exit")
	if a.isAdmin(ctx) {
		printlnFn("Admin commands: dash-create, dash-edit <id>, dash-delete <id>, area-create, area-edit <id>, area-delete <id>")
	}
}
