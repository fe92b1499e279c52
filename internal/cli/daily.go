package cli

import (
	"context"
	"fmt"
)

type DailyListCmd struct{}

func (c *DailyListCmd) Run(ctx *Context) error {
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	entries, err := ctx.API.DailyTasks(context.Background())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No tasks configured.")
		return nil
	}

	fmt.Printf("Tasks for %s:\n\n", entries[0].Date)
	for _, e := range entries {
		mark := " "
		if e.Completed {
			mark = "x"
		}
		fmt.Printf("[%s] %-4d %-30s +%d pts (earned %d)\n", mark, e.Task.ID, e.Task.Name, e.Task.Points, e.PointsAwarded)
	}
	return nil
}

type DailyToggleCmd struct {
	TaskID int `arg:"" help:"ID of the task to toggle."`
}

func (c *DailyToggleCmd) Run(ctx *Context) error {
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	entries, err := ctx.API.DailyTasks(context.Background())
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Task.ID != c.TaskID {
			continue
		}
		// The entry's own server-provided date goes back in the update,
		// never a locally computed one.
		next := e.Toggled()
		updated, err := ctx.API.UpsertDailyLog(context.Background(), next.Task.ID, next.Date, next.Completed)
		if err != nil {
			return err
		}
		state := "not completed"
		if updated.Completed {
			state = "completed"
		}
		fmt.Printf("%s: %s (earned %d pts)\n", updated.Task.Name, state, updated.PointsAwarded)
		return nil
	}

	return fmt.Errorf("no task with ID %d in today's list", c.TaskID)
}
