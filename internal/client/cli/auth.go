package cli

import (
	"context"
	"fmt"
)

func (a *App) readCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, string(password), nil
}

// Signup prompts for an email and password and creates a local account.
// The new account is logged in right away.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	acc, err := a.accounts.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}

	a.resetSearch(ctx)
	a.user = acc
	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", acc.Email)
	return nil
}

// Login prompts for credentials and starts a session. On failure the
// current session, if any, is kept.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	acc, err := a.accounts.Authenticate(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login failed", "email", email)
		return err
	}

	a.resetSearch(ctx)
	a.user = acc
	fmt.Fprintf(a.out, "Welcome, %s!\n", acc.Email)
	return nil
}

// Logout releases the camera, ends the session and forgets all search state.
// The account itself is kept.
func (a *App) Logout(ctx context.Context) error {
	a.resetSearch(ctx)
	if err := a.accounts.EndSession(ctx); err != nil {
		return err
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
