package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus(ctx context.Context) string {
	s := a.session.Snapshot(ctx)
	who := "anonymous"
	switch {
	case s.Loading:
		who = "loading"
	case s.Authenticated:
		who = s.User.DisplayName()
	}
	return fmt.Sprintf("(%s %s)", who, a.router.Current())
}

// Root prints the banner and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the portal CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
}
