package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Analyze(ctx context.Context, imagePath string) error {
	f.calls = append(f.calls, "analyze")
	f.arg = imagePath
	return nil
}
func (f *fakeExec) History(ctx context.Context) error {
	f.calls = append(f.calls, "history")
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	f.arg = id
	return nil
}
func (f *fakeExec) ClearHistory(ctx context.Context) error {
	f.calls = append(f.calls, "clear-history")
	return nil
}
func (f *fakeExec) Chat(ctx context.Context) error {
	f.calls = append(f.calls, "chat")
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}

func runScript(t *testing.T, f *fakeExec, script string) []string {
	t.Helper()

	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		out = append(out, strings.Join(parts, " "))
	}
	t.Cleanup(func() { printlnFn = orig })

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), f, func() string { return "" }, scanner)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "register\nlogin\nhistory\nchat\nlogout\nexit\n")

	assert.Equal(t, []string{"register", "login", "history", "chat", "logout"}, f.calls)
}

func TestREPL_AnalyzePassesPath(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	runScript(t, f, "analyze /tmp/mole.jpg\nexit\n")

	assert.Equal(t, []string{"analyze"}, f.calls)
	assert.Equal(t, "/tmp/mole.jpg", f.arg)
}

func TestREPL_AnalyzeWithoutPathShowsUsage(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	out := runScript(t, f, "analyze\nexit\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, strings.Join(out, "\n"), "Usage: analyze")
}

func TestREPL_DeletePassesID(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	runScript(t, f, "delete abc-123\nexit\n")

	assert.Equal(t, []string{"delete"}, f.calls)
	assert.Equal(t, "abc-123", f.arg)
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "frobnicate\nexit\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, strings.Join(out, "\n"), "Unknown command:")
}

func TestREPL_HelpDependsOnSession(t *testing.T) {
	out := runScript(t, &fakeExec{}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, "\n"), "register, login")

	out = runScript(t, &fakeExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, "\n"), "analyze <image>")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "history\n") // no exit; scanner just runs dry

	assert.Equal(t, []string{"history"}, f.calls)
}

func TestREPL_HistoryShortForm(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	runScript(t, f, "h\nexit\n")

	assert.Equal(t, []string{"history"}, f.calls)
}
