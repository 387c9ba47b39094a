package cli

import (
	"context"
	"fmt"

	"github.com/aricainsights/toucan/internal/common"
	"github.com/aricainsights/toucan/internal/validate"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, validates them locally, and delegates to
// the session manager. The password bytes are wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if !validate.Email(email) {
		fmt.Fprintln(a.out, "That does not look like a valid email address.")
		return nil
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !validate.Password(string(password)) {
		fmt.Fprintln(a.out, "Password must be between 8 and 128 characters.")
		return nil
	}

	if !a.session.Login(ctx, email, string(password)) {
		fmt.Fprintln(a.out, "Login failed. Check your credentials and try again.")
	}
	return nil
}

// Signup prompts for account details and registers a new account. A
// successful signup logs the session in.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if !validate.Email(email) {
		fmt.Fprintln(a.out, "That does not look like a valid email address.")
		return nil
	}

	password, err := getPassword(a.out, "Choose a password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !validate.Password(string(password)) {
		fmt.Fprintln(a.out, "Password must be between 8 and 128 characters.")
		return nil
	}

	firstName, err := getSimpleText(a.reader, "First name (optional)", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name (optional)", a.out)
	if err != nil {
		return err
	}

	if !a.session.Signup(ctx, email, string(password), firstName, lastName) {
		fmt.Fprintln(a.out, "Signup failed.")
	}
	return nil
}

// Logout ends the session and erases stored credentials.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

// Whoami prints the authenticated account.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "Email: %s\n", user.Email)
	if user.FirstName != "" || user.LastName != "" {
		fmt.Fprintf(a.out, "Name:  %s %s\n", user.FirstName, user.LastName)
	}
	fmt.Fprintf(a.out, "Keywords tracked: %d\n", len(user.Keywords))
	fmt.Fprintf(a.out, "Alert frequency:  %s\n", user.Preferences.AlertFrequency)
	return nil
}
