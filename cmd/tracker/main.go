package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/cli"
	"github.com/SID01AV/productivity-tracker/internal/session"
	"github.com/SID01AV/productivity-tracker/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Session storage path." type:"path" default:"~/.config/tracker/tracker.db"`
	Server  string `help:"API server base URL." env:"TRACKER_SERVER" default:"http://localhost:8000"`

	Login    cli.LoginCmd    `cmd:"" help:"Log in and persist the session."`
	Register cli.RegisterCmd `cmd:"" help:"Create an account and log in."`
	Logout   cli.LogoutCmd   `cmd:"" help:"Clear the persisted session."`
	Whoami   cli.WhoamiCmd   `cmd:"" help:"Show the logged-in identity."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Daily    struct {
		List   cli.DailyListCmd   `cmd:"" help:"Show today's task list." default:"1"`
		Toggle cli.DailyToggleCmd `cmd:"" help:"Toggle a task's completion."`
	} `cmd:"" help:"Today's tasks."`
	Stats       cli.StatsCmd       `cmd:"" help:"Show the points summary for a range."`
	Leaderboard cli.LeaderboardCmd `cmd:"" help:"Show the friends ranking for a range."`
	Friends     struct {
		List cli.FriendsListCmd `cmd:"" help:"List your friends." default:"1"`
		Add  cli.FriendsAddCmd  `cmd:"" help:"Add a friend by username."`
	} `cmd:"" help:"Manage friends."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run client diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tracker"),
		kong.Description("Productivity tracker client: complete daily tasks, earn points, compete with friends"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage type based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}
	sessions := session.NewStore(store)
	client := api.New(CLI.Server, sessions)
	sessions.Bind(client)

	appCtx := &cli.Context{
		Store:    store,
		Sessions: sessions,
		API:      client,
	}

	err := ctx.Run(appCtx)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
