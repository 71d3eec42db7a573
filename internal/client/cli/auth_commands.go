package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// Login prompts for credentials and runs one login attempt.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in, logout first")
		return services.ErrInvalidTransition
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error reading password:", err)
		return err
	}
	defer common.WipeByteArray(password)

	st, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintln(a.out, "Login is not possible right now")
		return err
	}

	fmt.Fprintln(a.out, models.DescribeLogin(st))
	if f, ok := st.(models.LoginFailure); ok {
		return f.Err
	}
	return nil
}

// Register prompts for a name, email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, "error reading password:", err)
		return err
	}
	defer common.WipeByteArray(password)

	if name == "" || email == "" || len(password) == 0 {
		fmt.Fprintln(a.out, "Name, email and password are required")
		return common.ErrorValidation
	}

	if err := a.auth.Register(ctx, name, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", client.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(a.out, "User created, you can login now")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			fmt.Fprintln(a.out, "Not logged in")
		} else {
			fmt.Fprintln(a.out, "Logout failed:", err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the login state, connectivity and a sync summary.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintln(a.out, models.DescribeLogin(a.auth.State()))
	if m := a.Mode(); m != "" {
		fmt.Fprintln(a.out, "server:", m)
	}

	list, err := a.recipes.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}

	counts := make(map[models.SyncStatus]int)
	for _, r := range list {
		counts[r.SyncStatus]++
	}
	fmt.Fprintf(a.out, "recipes: %d (%s %d, %s %d, %s %d, %s %d)\n", len(list),
		models.Synced, counts[models.Synced],
		models.Syncing, counts[models.Syncing],
		models.NotSynced, counts[models.NotSynced],
		models.SyncError, counts[models.SyncError])
	return nil
}
