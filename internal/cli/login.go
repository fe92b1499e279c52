package cli

import (
	"context"
	"fmt"
)

type LoginCmd struct {
	Username string `arg:"" help:"Account username."`
	Password string `short:"p" help:"Account password." required:""`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if err := ctx.open(); err != nil {
		return err
	}

	sess, err := ctx.Sessions.Login(context.Background(), c.Username, c.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", sess.User.Username)
	return nil
}
