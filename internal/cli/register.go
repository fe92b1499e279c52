package cli

import (
	"context"
	"fmt"
)

type RegisterCmd struct {
	Username string `arg:"" help:"Desired username."`
	Password string `short:"p" help:"Account password." required:""`
	Email    string `short:"e" help:"Email address (optional)."`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	if err := ctx.open(); err != nil {
		return err
	}

	sess, err := ctx.Sessions.Register(context.Background(), c.Username, c.Email, c.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created, logged in as %s\n", sess.User.Username)
	return nil
}
