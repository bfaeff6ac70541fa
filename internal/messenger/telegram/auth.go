package telegram

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
)

// ErrSignUpUnsupported is returned when the phone number has no Telegram account.
var ErrSignUpUnsupported = errors.New("telegram: sign up is not supported, register the account with an official client") //nolint:gochecknoglobals // sentinel error

// TerminalAuth asks for login details on a terminal.
type TerminalAuth struct {
	PhoneNumber string // asked for when empty

	in  *bufio.Reader
	out io.Writer
	fd  int
}

var _ auth.UserAuthenticator = (*TerminalAuth)(nil) //nolint:gochecknoglobals // compile-time check

// NewTerminalAuth prompts on stderr and reads from stdin.
func NewTerminalAuth(phone string) *TerminalAuth {
	return &TerminalAuth{
		PhoneNumber: phone,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stderr,
		fd:          int(os.Stdin.Fd()), //nolint:gosec // file descriptors fit in int
	}
}

// Phone returns the configured phone number or asks for one.
func (a *TerminalAuth) Phone(_ context.Context) (string, error) {
	if a.PhoneNumber != "" {
		return a.PhoneNumber, nil
	}
	return a.ask("Phone number (international format): ")
}

// Password reads the two-step verification password without echo.
func (a *TerminalAuth) Password(_ context.Context) (string, error) {
	if !term.IsTerminal(a.fd) {
		return a.ask("2FA password: ")
	}

	fmt.Fprint(a.out, "2FA password: ")
	pw, err := term.ReadPassword(a.fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("telegram.TerminalAuth.Password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

// Code asks for the login code Telegram just sent.
func (a *TerminalAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return a.ask("Login code: ")
}

// AcceptTermsOfService accepts the terms shown for a new account.
func (a *TerminalAuth) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	fmt.Fprintln(a.out, tos.Text)
	return nil
}

// SignUp refuses to create accounts.
func (a *TerminalAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, ErrSignUpUnsupported
}

func (a *TerminalAuth) ask(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("telegram.TerminalAuth: read: %w", err)
	}
	return strings.TrimSpace(line), nil
}
