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

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error

	Subjects(ctx context.Context) error
	AddSubject(ctx context.Context) error
	EditSubject(ctx context.Context) error
	DeleteSubject(ctx context.Context) error

	Sessions(ctx context.Context) error
	AddSession(ctx context.Context) error
	EditSession(ctx context.Context) error
	DeleteSession(ctx context.Context) error

	Calendar(ctx context.Context, arg string) error
	Report(ctx context.Context) error
	Refresh(ctx context.Context) error
}

const (
	helpLoggedOut = "Comandos: register, login, forgot, reset, help, exit"
	helpLoggedIn  = "Comandos: subjects, addsubject, editsubject, delsubject, " +
		"sessions, addsession, editsession, delsession, " +
		"calendar [next|prev|today], report, refresh, whoami, profile, logout, help, exit"
)

// runREPL reads one command per line and dispatches it to a. The loop ends
// on EOF or on "exit"/"quit". Handlers report their own errors, so the
// returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("agenda %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "exit", "quit":
			printlnFn("Até logo!")
			return

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "forgot":
			_ = a.Forgot(ctx)
		case "reset":
			_ = a.Reset(ctx)

		default:
			if !a.isLoggedIn() {
				if _, known := loggedInCommands[cmd]; known {
					printlnFn("Faça login primeiro.")
				} else {
					printlnFn("Comando desconhecido:", cmd)
				}
				continue
			}
			dispatchLoggedIn(ctx, a, cmd, arg)
		}
	}
}

var loggedInCommands = map[string]struct{}{
	"logout": {}, "whoami": {}, "profile": {},
	"subjects": {}, "addsubject": {}, "editsubject": {}, "delsubject": {},
	"sessions": {}, "addsession": {}, "editsession": {}, "delsession": {},
	"calendar": {}, "report": {}, "refresh": {},
}

func dispatchLoggedIn(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "logout":
		_ = a.Logout(ctx)
	case "whoami":
		_ = a.Whoami(ctx)
	case "profile":
		_ = a.Profile(ctx)
	case "subjects":
		_ = a.Subjects(ctx)
	case "addsubject":
		_ = a.AddSubject(ctx)
	case "editsubject":
		_ = a.EditSubject(ctx)
	case "delsubject":
		_ = a.DeleteSubject(ctx)
	case "sessions":
		_ = a.Sessions(ctx)
	case "addsession":
		_ = a.AddSession(ctx)
	case "editsession":
		_ = a.EditSession(ctx)
	case "delsession":
		_ = a.DeleteSession(ctx)
	case "calendar":
		_ = a.Calendar(ctx, arg)
	case "report":
		_ = a.Report(ctx)
	case "refresh":
		_ = a.Refresh(ctx)
	default:
		printlnFn("Comando desconhecido:", cmd)
	}
}
