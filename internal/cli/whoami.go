package cli

import (
	"context"
	"fmt"

	"github.com/SID01AV/productivity-tracker/internal/api"
)

type WhoamiCmd struct {
	Verify bool `help:"Check the stored credential against the server."`
}

func (c *WhoamiCmd) Run(ctx *Context) error {
	sess, err := ctx.requireSession()
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (id %d)\n", sess.User.Username, sess.User.ID)
	if sess.User.Email != "" {
		fmt.Printf("Email: %s\n", sess.User.Email)
	}

	if !c.Verify {
		return nil
	}

	user, err := ctx.API.Me(context.Background())
	if err != nil {
		if api.IsAuth(err) {
			return fmt.Errorf("stored credential was rejected by the server, run 'tracker login' again")
		}
		return err
	}
	fmt.Printf("Server confirms: %s (id %d)\n", user.Username, user.ID)
	return nil
}
