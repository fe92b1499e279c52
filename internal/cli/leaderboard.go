package cli

import (
	"context"
	"fmt"

	"github.com/SID01AV/productivity-tracker/internal/models"
)

type LeaderboardCmd struct {
	Range string `short:"r" help:"Aggregation range (daily|weekly|monthly)." default:"weekly"`
}

func (c *LeaderboardCmd) Run(ctx *Context) error {
	rng, err := models.ParseRange(c.Range)
	if err != nil {
		return err
	}
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	entries, err := ctx.API.Leaderboard(context.Background(), rng)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No data yet. Complete some tasks!")
		return nil
	}

	fmt.Printf("Leaderboard (%s):\n\n", rng)
	for i, e := range entries {
		fmt.Printf("%2d. %-20s %d pts\n", i+1, e.Username, e.TotalPoints)
	}
	return nil
}
