package cli

import (
	"context"
	"errors"
	"fmt"

	"dermascan/internal/common"
)

// History lists the current user's analyses, newest first.
func (a *App) History(ctx context.Context) error {
	owner := a.owner()
	if owner == "" {
		printlnFn("Log in to see your history.")
		return nil
	}

	records, err := a.history.ListFor(ctx, owner, true)
	if err != nil {
		printlnFn("Could not load history:", err.Error())
		return err
	}
	if len(records) == 0 {
		printlnFn("No analyses yet.")
		return nil
	}

	for _, r := range records {
		conf := ""
		if r.Confidence != nil {
			conf = fmt.Sprintf(" (%.0f%%)", *r.Confidence*100)
		}
		printlnFn(fmt.Sprintf("%s  %s  %s%s", r.ID, r.DisplayDate(), r.Disease, conf))
	}
	return nil
}

// Delete removes one of the current user's records by id.
func (a *App) Delete(ctx context.Context, id string) error {
	owner := a.owner()
	if owner == "" {
		printlnFn("Log in first.")
		return nil
	}

	if err := a.history.DeleteOne(ctx, id, owner); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			printlnFn("No such record.")
		case errors.Is(err, common.ErrNotOwned):
			printlnFn("That record belongs to another user.")
		default:
			printlnFn("Could not delete:", err.Error())
		}
		return err
	}

	printlnFn("Deleted.")
	return nil
}

// ClearHistory wipes all of the current user's records. Other users' records
// on this device are left alone.
func (a *App) ClearHistory(ctx context.Context) error {
	owner := a.owner()
	if owner == "" {
		printlnFn("Log in first.")
		return nil
	}

	removed, err := a.history.DeleteAllFor(ctx, owner)
	if err != nil {
		printlnFn("Could not clear history:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Removed %d record(s).", removed))
	return nil
}
