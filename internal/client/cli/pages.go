package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/areaportal/internal/client/guard"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
	"github.com/dmitrijs2005/areaportal/internal/common"
)

// page navigates to path and runs render once the route guard grants
// access. A denied page tells the user where they were sent and returns
// common.ErrUnauthenticated or common.ErrForbidden.
func (a *App) page(ctx context.Context, path string, opts guard.Options, render func(ctx context.Context, u *models.User) error) error {
	opts.LoginPath = a.config.LoginPath
	opts.UnauthorizedPath = a.config.UnauthorizedPath
	a.router.Navigate(path)

	g := guard.New(a.session, a.router, opts)
	g.Mount(ctx)
	defer g.Unmount()

	wctx, cancel := context.WithTimeout(ctx, a.sessionLoadTimeout())
	d, err := g.Await(wctx)
	cancel()
	if err != nil {
		fmt.Fprintln(a.out, "Session is still loading, please try again.")
		return err
	}

	user := a.session.User()
	if d.State == guard.Denied || user == nil {
		if d.Redirect == a.config.UnauthorizedPath {
			fmt.Fprintln(a.out, "You do not have access to this page.")
			return common.ErrForbidden
		}
		fmt.Fprintln(a.out, "Please log in first (type 'login').")
		return common.ErrUnauthenticated
	}

	if err := a.favorites.Load(ctx); err != nil {
		a.log.Warn(ctx, "failed to load favorites", "error", err)
	}

	if err := render(ctx, user); err != nil {
		a.report(ctx, err)
		return err
	}
	return nil
}

// sessionLoadTimeout bounds the wait for a running session load: one API
// call with all its retries, plus a second of slack.
func (a *App) sessionLoadTimeout() time.Duration {
	if c, ok := a.api.(interface{ MaxCallDuration() time.Duration }); ok {
		return c.MaxCallDuration() + time.Second
	}
	retries := max(a.config.RetryMax, 0)
	return time.Duration(retries+1)*a.config.RequestTimeout + time.Second
}

// report prints err for the user. A rejected token ends the session.
func (a *App) report(ctx context.Context, err error) {
	if errors.Is(err, common.ErrUnauthenticated) {
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
		if lerr := a.session.Logout(ctx); lerr != nil {
			a.log.Error(ctx, "failed to clear session", "error", lerr)
		}
		return
	}
	fmt.Fprintln(a.out, "Error:", common.UserMessage(err))
}

// prompt reads one line, keeping current when the answer is empty.
func (a *App) prompt(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	v, err := getSimpleText(a.reader, label, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// confirm asks for an explicit "yes".
func (a *App) confirm(question string) (bool, error) {
	v, err := getSimpleText(a.reader, question+" (type 'yes' to confirm)", a.out)
	if err != nil {
		return false, err
	}
	return v == "yes", nil
}
