package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/recipes"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// Add prompts for a title and a multi-line body. The recipe is stored
// locally at once and mirrored to the server in the background.
func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Enter recipe text", a.out)
	if err != nil {
		return err
	}

	rec, err := a.recipes.Add(ctx, title, body)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	fmt.Fprintf(a.out, "Recipe #%d saved locally, syncing...\n", rec.ID)
	return nil
}

// List prints local recipes, or the server's view with "remote [all]".
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "remote" {
		all := len(args) > 1 && args[1] == "all"
		list, err := a.recipes.Remote(ctx, all)
		if err != nil {
			fmt.Fprintln(a.out, "error:", client.ErrorMessage(err))
			return err
		}
		return a.printRemote(list)
	}

	list, err := a.recipes.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No recipes yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tNOTE")
	for _, r := range list {
		note := ""
		switch {
		case r.SyncErrorMessage != nil:
			note = *r.SyncErrorMessage
		case a.recipes.Pending(r.ID):
			note = "pending"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.SyncStatus, r.Title, note)
	}
	return tw.Flush()
}

func (a *App) printRemote(list []models.Recipe) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No recipes on the server")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tTITLE")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Owner, r.Title)
	}
	return tw.Flush()
}

// Show prints one local recipe in full.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.parseID("show", args)
	if err != nil {
		return err
	}

	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		a.reportLookup(id, err)
		return err
	}

	fmt.Fprintf(a.out, "#%d %s\n", r.ID, r.Title)
	if r.Owner != "" {
		fmt.Fprintln(a.out, "owner:", r.Owner)
	}
	fmt.Fprintln(a.out, "created:", time.UnixMilli(r.Timestamp).Format(time.DateTime))
	fmt.Fprintln(a.out, "status:", r.SyncStatus)
	if r.LastSyncTimestamp != nil {
		fmt.Fprintln(a.out, "last sync:", time.UnixMilli(*r.LastSyncTimestamp).Format(time.DateTime))
	}
	if r.SyncErrorMessage != nil {
		fmt.Fprintln(a.out, "sync error:", *r.SyncErrorMessage)
	}
	if r.Body != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, r.Body)
	}
	return nil
}

// Delete removes a recipe locally and asks the server to forget it too.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.parseID("delete", args)
	if err != nil {
		return err
	}

	if err := a.recipes.Delete(ctx, id); err != nil {
		a.reportLookup(id, err)
		return err
	}
	fmt.Fprintf(a.out, "Recipe #%d deleted\n", id)
	return nil
}

// Retry mirrors a failed or never-synced recipe again.
func (a *App) Retry(ctx context.Context, args []string) error {
	id, err := a.parseID("retry", args)
	if err != nil {
		return err
	}

	if err := a.recipes.Retry(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotRetryable) {
			fmt.Fprintf(a.out, "Recipe #%d is already synced or syncing\n", id)
			return err
		}
		a.reportLookup(id, err)
		return err
	}
	fmt.Fprintf(a.out, "Recipe #%d queued for sync\n", id)
	return nil
}

func (a *App) parseID(cmd string, args []string) (int64, error) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: %s <id>\n", cmd)
		return 0, common.ErrorValidation
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Recipe id must be an integer")
		return 0, common.ErrorValidation
	}
	return id, nil
}

func (a *App) reportLookup(id int64, err error) {
	if errors.Is(err, recipes.ErrNotFound) {
		fmt.Fprintf(a.out, "Recipe #%d not found\n", id)
		return
	}
	fmt.Fprintln(a.out, "error:", err)
}
