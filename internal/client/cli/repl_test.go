package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	arg      string
}

func (f *fakeExec) record(name string) error { f.calls = append(f.calls, name); return nil }

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Forgot(context.Context) error        { return f.record("forgot") }
func (f *fakeExec) Reset(context.Context) error         { return f.record("reset") }
func (f *fakeExec) Whoami(context.Context) error        { return f.record("whoami") }
func (f *fakeExec) Profile(context.Context) error       { return f.record("profile") }
func (f *fakeExec) Subjects(context.Context) error      { return f.record("subjects") }
func (f *fakeExec) AddSubject(context.Context) error    { return f.record("addsubject") }
func (f *fakeExec) EditSubject(context.Context) error   { return f.record("editsubject") }
func (f *fakeExec) DeleteSubject(context.Context) error { return f.record("delsubject") }
func (f *fakeExec) Sessions(context.Context) error      { return f.record("sessions") }
func (f *fakeExec) AddSession(context.Context) error    { return f.record("addsession") }
func (f *fakeExec) EditSession(context.Context) error   { return f.record("editsession") }
func (f *fakeExec) DeleteSession(context.Context) error { return f.record("delsession") }
func (f *fakeExec) Report(context.Context) error        { return f.record("report") }
func (f *fakeExec) Refresh(context.Context) error       { return f.record("refresh") }
func (f *fakeExec) Calendar(_ context.Context, arg string) error {
	f.arg = arg
	return f.record("calendar")
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = fmt.Sprint(v)
		}
		out = append(out, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"subjects",
		"help",
		"login",
		"help",
		"addsubject",
		"sessions",
		"calendar next",
		"report",
		"foobar",
		"logout",
		"report",
		"exit",
		"subjects",
	}, "\n")))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	assert.Equal(t, []string{"login", "addsubject", "sessions", "calendar", "report", "logout"}, exec.calls)
	assert.Equal(t, "next", exec.arg)
	assert.Contains(t, *out, "Faça login primeiro.")
	assert.Contains(t, *out, helpLoggedOut)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "Comando desconhecido: foobar")
	assert.Contains(t, *out, "Até logo!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("refresh")))
	assert.Equal(t, []string{"refresh"}, exec.calls)
}

func TestRunREPL_EveryLoggedInCommandDispatches(t *testing.T) {
	captureOutput(t)
	var lines []string
	for cmd := range loggedInCommands {
		if cmd != "logout" {
			lines = append(lines, cmd)
		}
	}
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(strings.Join(lines, "\n"))))
	assert.Len(t, exec.calls, len(lines))
}
