package cli

import (
	"context"
	"fmt"
)

type FriendsListCmd struct{}

func (c *FriendsListCmd) Run(ctx *Context) error {
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	friends, err := ctx.API.Friends(context.Background())
	if err != nil {
		return err
	}

	if len(friends) == 0 {
		fmt.Println("No friends yet. Add someone!")
		return nil
	}
	for _, f := range friends {
		fmt.Println(f.Friend.Username)
	}
	return nil
}

type FriendsAddCmd struct {
	Username string `arg:"" help:"Username of the friend to add."`
}

func (c *FriendsAddCmd) Run(ctx *Context) error {
	if _, err := ctx.requireSession(); err != nil {
		return err
	}

	fs, err := ctx.API.AddFriend(context.Background(), c.Username)
	if err != nil {
		return err
	}

	fmt.Printf("Added %s\n", fs.Friend.Username)
	return nil
}
