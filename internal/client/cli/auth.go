package cli

import (
	"context"
	"errors"
	"os"

	"dermascan/internal/common"
)

// Register prompts for account details and overwrites the single local
// account. Registering does not log the new user in.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if err := a.sessions.SignUp(ctx, name, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrCredentialsRequired):
			printlnFn("All fields are required.")
		case errors.Is(err, common.ErrValidation):
			printlnFn("That does not look like an email address.")
		default:
			printlnFn("Could not register:", err.Error())
		}
		return err
	}

	printlnFn("Registered. You can log in now.")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	if err := a.sessions.Login(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrNoRegisteredUser):
			printlnFn("No registered user on this device. Use 'register' first.")
		case errors.Is(err, common.ErrInvalidCredentials):
			printlnFn("Invalid credentials.")
		case errors.Is(err, common.ErrCredentialsRequired):
			printlnFn("Email and password are required.")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	printlnFn("Login successful.")
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		// Already logged out in memory; the stored session may linger.
		printlnFn("Logged out, but clearing stored session failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the current session's user.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.sessions.State()
	if !s.LoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(s.CurrentUser.Name, "<"+s.CurrentUser.OwnerID()+">")
	return nil
}
