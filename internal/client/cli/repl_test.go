package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) isAdmin(context.Context) bool { return f.admin }

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) ForgotPassword(context.Context) error { return f.record("forgot") }
func (f *fakeExec) ResetPassword(context.Context) error { return f.record("reset") }
func (f *fakeExec) Profile(context.Context) error { return f.record("profile") }
func (f *fakeExec) ChangePassword(context.Context) error { return f.record("passwd") }

func (f *fakeExec) Areas(context.Context) error { return f.record("areas") }
func (f *fakeExec) Area(_ context.Context, slug string) error { return f.record("area", slug) }
func (f *fakeExec) Show(_ context.Context, id string) error { return f.record("show", id) }
func (f *fakeExec) Fav(_ context.Context, id string) error { return f.record("fav", id) }
func (f *fakeExec) Unfav(_ context.Context, id string) error { return f.record("unfav", id) }
func (f *fakeExec) Favs(context.Context) error { return f.record("favs") }
func (f *fakeExec) ClearFavs(context.Context) error { return f.record("clearfavs") }
func (f *fakeExec) CreateDashboard(context.Context) error { return f.record("dash-create") }
func (f *fakeExec) EditDashboard(_ context.Context, id string) error {
	return f.record("dash-edit", id)
}
func (f *fakeExec) DeleteDashboard(_ context.Context, id string) error {
	return f.record("dash-delete", id)
}
func (f *fakeExec) CreateArea(context.Context) error { return f.record("area-create") }
func (f *fakeExec) EditArea(_ context.Context, id string) error {
	return f.record("area-edit", id)
}
func (f *fakeExec) DeleteArea(_ context.Context, id string) error {
	return f.record("area-delete", id)
}

// capturePrintln swaps printlnFn for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func run(t *testing.T, exec *fakeExec, input ...string) []string {
	t.Helper()
	lines := capturePrintln(t)
	reader := bufio.NewReader(strings.NewReader(strings.Join(input, "\n")))
	runREPL(context.Background(), exec, func() string { return "(status)" }, reader)
	return *lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, exec,
		"login",
		"areas",
		"area finance",
		"show 12",
		"fav 12",
		"unfav 12",
		"favs",
		"clearfavs",
		"whoami",
		"profile",
		"passwd",
		"dash-create",
		"dash-edit 7",
		"dash-delete 7",
		"area-create",
		"area-edit 3",
		"area-delete 3",
		"forgot",
		"reset",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{
		"login", "areas", "area finance", "show 12", "fav 12", "unfav 12", "favs", "clearfavs",
		"whoami", "profile", "passwd",
		"dash-create", "dash-edit 7", "dash-delete 7", "area-create", "area-edit 3", "area-delete 3",
		"forgot", "reset", "logout",
	}, exec.calls)
	assert.Equal(t, "Bye!", out[len(out)-1])
	assert.Equal(t, "portal (status) > ", out[0])
}

func TestRunREPL_UsageOnWrongArgCount(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	out := run(t, exec, "area", "show 1 2", "fav", "quit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out, "Usage: area <slug>")
	assert.Contains(t, out, "Usage: show <dashboardID>")
	assert.Contains(t, out, "Usage: fav <dashboardID>")
}

func TestRunREPL_UnknownAndBlankLines(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, exec, "", "   ", "foobar", "exit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out, "Unknown command: foobar")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	run(t, exec, "areas")
	assert.Equal(t, []string{"areas"}, exec.calls)

	exec = &fakeExec{}
	run(t, exec)
	assert.Empty(t, exec.calls)
}

func TestPrintHelp(t *testing.T) {
	tests := []struct {
		name      string
		exec      *fakeExec
		wantLines int
		wantAdmin bool
	}{
		{"anonymous", &fakeExec{}, 1, false},
		{"user", &fakeExec{loggedIn: true}, 1, false},
		{"admin", &fakeExec{loggedIn: true, admin: true}, 2, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := capturePrintln(t)
			printHelp(context.Background(), tc.exec)

			require.Len(t, *lines, tc.wantLines)
			assert.Equal(t, tc.wantAdmin, strings.Contains(strings.Join(*lines, "\n"), "dash-create"))
		})
	}
}
