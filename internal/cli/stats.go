package cli

import (
	"context"
	"fmt"

	"github.com/SID01AV/productivity-tracker/internal/models"
)

type StatsCmd struct {
	Range string `short:"r" help:"Aggregation range (daily|weekly|monthly)." default:"weekly"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	rng, err := models.ParseRange(c.Range)
	if err != nil {
		return err
	}
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	summary, err := ctx.API.StatsSummary(context.Background(), rng)
	if err != nil {
		return err
	}

	fmt.Printf("Stats (%s): %s → %s\n", rng, summary.StartDate, summary.EndDate)
	fmt.Printf("Total points: %d\n", summary.TotalPoints)

	if len(summary.ByDate) == 0 {
		fmt.Println("No activity yet in this range.")
		return nil
	}
	fmt.Println()
	for _, d := range summary.ByDate {
		fmt.Printf("%s  %d pts\n", d.Date, d.Points)
	}
	return nil
}
