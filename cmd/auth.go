package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/shared"
)

func credentials(cmd *cli.Command) (string, string, error) {
	username, err := requireArg(cmd, "username")
	if err != nil {
		return "", "", err
	}
	password := cmd.String("password")
	if password == "" {
		return "", "", fmt.Errorf("%w: --password or PASSPORT_PASSWORD", shared.ErrMissingArgument)
	}
	return username, password, nil
}

// AuthRegister creates an account and signs in with it.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username, password, err := credentials(cmd)
	if err != nil {
		return err
	}

	if err := r.auth.Register(ctx, username, password); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, r.auth.Err())
	}
	return r.writePlain("✓ Registered and signed in as %s\n", r.auth.Username())
}

// AuthLogin signs in and persists the session for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username, password, err := credentials(cmd)
	if err != nil {
		return err
	}

	if err := r.auth.Login(ctx, username, password); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, r.auth.Err())
	}
	return r.writePlain("✓ Signed in as %s\n", r.auth.Username())
}

// AuthLogout ends the session. Local state is cleared even when the backend call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.auth.IsAuthenticated() {
		return r.writePlain("Not signed in\n")
	}
	if err := r.auth.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus prints the persisted session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Backend: %s\n", r.client.BaseURL())
	if !r.auth.IsAuthenticated() {
		return r.writePlain("Session: ✗ Not signed in\n")
	}

	r.writePlain("Session: ✓ Signed in\n")
	r.writePlain("Username: %s\n", r.auth.Username())
	r.writePlain("User ID: %s\n", r.auth.User())
	return r.writePlain("Token: %s\n", shared.Redact(r.auth.Session()))
}

// AuthWhois resolves a username to its user id.
func (r *Runner) AuthWhois(ctx context.Context, cmd *cli.Command) error {
	username, err := requireArg(cmd, "username")
	if err != nil {
		return err
	}

	ids, err := r.users.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(ids, cmd.Bool("pretty"))
	}
	if len(ids) == 0 {
		return r.writePlain("No user named %s\n", username)
	}
	for _, id := range ids {
		r.writePlain("%s\t%s\n", id.Username, id.UserID)
	}
	return nil
}
