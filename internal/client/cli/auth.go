package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/areaportal/internal/client/guard"
	"github.com/dmitrijs2005/areaportal/internal/client/models"
)

// Login prompts for credentials and signs in through the session manager,
// which navigates to the home page on success. The error message printed
// on failure comes from the server when it sent one.
func (a *App) Login(ctx context.Context) error {
	a.router.Navigate(a.config.LoginPath)

	if s := a.session.Snapshot(ctx); s.Authenticated {
		fmt.Fprintf(a.out, "Already logged in as %s. Log out first.\n", s.User.DisplayName())
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := readPasswordString(a.out, "Password")
	if err != nil {
		return err
	}

	u, err := a.session.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", u.DisplayName(), u.Role)
	return nil
}

// Logout ends the session locally even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	return a.page(ctx, "/me", guard.Options{}, func(ctx context.Context, u *models.User) error {
		fmt.Fprintf(a.out, "%s <%s>\n", u.DisplayName(), u.Email)
		fmt.Fprintf(a.out, "  id:    %s\n", u.ID)
		fmt.Fprintf(a.out, "  role:  %s\n", u.Role)

		var perms []string
		for _, p := range []models.Permission{
			models.PermViewDashboards, models.PermManageFavorites, models.PermEditDashboards,
			models.PermManageDashboards, models.PermManageAreas, models.PermManageUsers,
		} {
			if u.Can(p) {
				perms = append(perms, string(p))
			}
		}
		fmt.Fprintf(a.out, "  perms: %s\n", strings.Join(perms, ", "))

		if u.IsAdmin() {
			fmt.Fprintln(a.out, "  areas: all")
			return nil
		}
		var areas []string
		for _, r := range u.Areas {
			switch {
			case r.Slug != "":
				areas = append(areas, r.Slug)
			default:
				areas = append(areas, r.ID.String())
			}
		}
		fmt.Fprintf(a.out, "  areas: %s\n", strings.Join(areas, ", "))
		return nil
	})
}

// ForgotPassword requests a reset email. Development backends also return
// the token itself, which is printed for convenience.
func (a *App) ForgotPassword(ctx context.Context) error {
	a.router.Navigate("/forgot-password")

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	res, err := a.accountService.ForgotPassword(ctx, email)
	if err != nil {
		a.report(ctx, err)
		return err
	}

	msg := res.Message
	if msg == "" {
		msg = "If the address is registered, a reset link has been sent."
	}
	fmt.Fprintln(a.out, msg)
	if res.Token != "" {
		fmt.Fprintln(a.out, "Reset token:", res.Token)
	}
	if res.PreviewURL != "" {
		fmt.Fprintln(a.out, "Preview:", res.PreviewURL)
	}
	return nil
}

func (a *App) ResetPassword(ctx context.Context) error {
	a.router.Navigate("/reset-password")

	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := readPasswordString(a.out, "New password")
	if err != nil {
		return err
	}
	repeat, err := readPasswordString(a.out, "Repeat new password")
	if err != nil {
		return err
	}

	if err := a.accountService.ResetPassword(ctx, token, password, repeat); err != nil {
		a.report(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, "Password updated, you can log in now.")
	a.router.Navigate(a.config.LoginPath)
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	return a.page(ctx, "/profile", guard.Options{}, func(ctx context.Context, u *models.User) error {
		name, err := a.prompt("Name", u.Name)
		if err != nil {
			return err
		}
		email, err := a.prompt("Email", u.Email)
		if err != nil {
			return err
		}

		in := models.ProfileInput{}
		if name != u.Name {
			in.Name = name
		}
		if email != u.Email {
			in.Email = email
		}
		if err := a.accountService.UpdateProfile(ctx, in); err != nil {
			return err
		}

		a.session.RefreshUser(ctx)
		fmt.Fprintln(a.out, "Profile updated")
		return nil
	})
}

func (a *App) ChangePassword(ctx context.Context) error {
	return a.page(ctx, "/profile/password", guard.Options{}, func(ctx context.Context, u *models.User) error {
		current, err := readPasswordString(a.out, "Current password")
		if err != nil {
			return err
		}
		password, err := readPasswordString(a.out, "New password")
		if err != nil {
			return err
		}
		repeat, err := readPasswordString(a.out, "Repeat new password")
		if err != nil {
			return err
		}

		if err := a.accountService.UpdatePassword(ctx, u.ID, current, password, repeat); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Password changed")
		return nil
	})
}
