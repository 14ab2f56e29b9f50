// Package auth implements the login, logout and whoami commands.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joshsymonds/rasa/internal/app"
	"github.com/joshsymonds/rasa/internal/auth"
)

// NewCommands builds the session commands.
func NewCommands(global *app.Options) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(global),
		newLogoutCommand(global),
		newWhoamiCommand(global),
	}
}

func newLoginCommand(global *app.Options) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a RASA operator",
		Long: `Sign in and persist the session under the data directory.

The password is read without echo when stdin is a terminal, otherwise from
the first line of stdin.`,
		Example: `  rasa login
  rasa login --username Admin
  echo "$RASA_PASSWORD" | rasa login -u Admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // nothing to flush

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if username == "" {
				if username, err = p.line("Username: "); err != nil {
					return err
				}
			}
			password, err := p.secret("Password: ")
			if err != nil {
				return err
			}

			session, err := a.Sessions.Login(username, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged in as %s (%s)\n", session.Username, session.Role)
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator username")
	return cmd
}

func newLogoutCommand(global *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // nothing to flush

			if err := a.Sessions.Logout(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "👋 Logged out")
			return err
		},
	}
}

func newWhoamiCommand(global *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(*global)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // nothing to flush

			session, err := a.Sessions.Current()
			if errors.Is(err, auth.ErrNotLoggedIn) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return err
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), logged in since %s\n",
				session.Username, session.Role, session.LoggedInAt().Local().Format("2006-01-02 15:04:05"))
			return err
		},
	}
}

// prompter reads answers from stdin, hiding secrets when stdin is a terminal.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *prompter) terminal() (int, bool) {
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // file descriptors fit in int
	return fd, term.IsTerminal(fd)
}

func (p *prompter) line(prompt string) (string, error) {
	if _, ok := p.terminal(); ok {
		fmt.Fprint(p.out, prompt)
	}
	s, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	fd, ok := p.terminal()
	if !ok {
		return p.line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}
