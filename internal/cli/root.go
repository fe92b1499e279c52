package cli

import (
	"fmt"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/session"
	"github.com/SID01AV/productivity-tracker/internal/storage"
)

// Context carries the wired dependencies into every command.
type Context struct {
	Store    storage.Provider
	Sessions *session.Store
	API      *api.Client
}

// open prepares the slot storage for use.
func (ctx *Context) open() error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	return nil
}

// requireSession rehydrates the persisted session and fails with a usable
// hint when there is none.
func (ctx *Context) requireSession() (*session.Session, error) {
	if err := ctx.open(); err != nil {
		return nil, err
	}
	sess := ctx.Sessions.Rehydrate()
	if sess == nil {
		return nil, fmt.Errorf("not logged in, run 'tracker login' first")
	}
	return sess, nil
}
