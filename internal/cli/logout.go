package cli

import "fmt"

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.open(); err != nil {
		return err
	}

	if err := ctx.Sessions.Logout(); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
