// Package cli implements the moviectl command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/client"
	"github.com/Mrugank93/movies/internal/session"
	"golang.org/x/term"
)

// readPassword is replaced in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

// App runs one moviectl command against the API.
type App struct {
	client *client.Client
	store  *session.Store
	out    io.Writer
	errOut io.Writer
}

func NewApp(c *client.Client, store *session.Store, out, errOut io.Writer) *App {
	return &App{client: c, store: store, out: out, errOut: errOut}
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{"sign-up", "sign-up -email EMAIL [-password PASSWORD]", a.signUp},
		{"sign-in", "sign-in -email EMAIL [-password PASSWORD]", a.signIn},
		{"sign-out", "sign-out", a.signOut},
		{"list", "list [-page N]", a.list},
		{"get", "get ID", a.get},
		{"add", "add -title TITLE -year YEAR -image FILE", a.add},
		{"edit", "edit ID [-title TITLE] [-year YEAR] [-image FILE]", a.edit},
	}
}

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}
	for _, cmd := range a.commands() {
		if cmd.name == args[0] {
			return cmd.run(ctx, args[1:])
		}
	}
	a.usage()
	return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
}

func (a *App) usage() {
	fmt.Fprintln(a.errOut, "Usage: moviectl [-server URL] [-session FILE] COMMAND")
	fmt.Fprintln(a.errOut, "Commands:")
	for _, cmd := range a.commands() {
		fmt.Fprintln(a.errOut, "  "+cmd.usage)
	}
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// UserMessage renders err the way it is shown to the user.
func UserMessage(err error) string {
	if errors.Is(err, ErrUsage) {
		return err.Error()
	}
	if apperr.Kind(err) == nil {
		return err.Error()
	}

	msg := apperr.Message(err)
	fields := apperr.FieldErrors(err)
	if len(fields) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for field, reason := range fields {
		fmt.Fprintf(&b, "\n  %s %s", field, reason)
	}
	return b.String()
}

func (a *App) promptPassword() (string, error) {
	fmt.Fprint(a.errOut, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
