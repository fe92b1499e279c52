package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/SID01AV/productivity-tracker/internal/session"
	"github.com/SID01AV/productivity-tracker/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: slot storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("FAIL storage reachable\n")
		fmt.Printf("     Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("ok   storage reachable\n")
	}

	// Check 2: credential and identity slots are paired
	if err := checkSlotPair(ctx); err != nil {
		fmt.Printf("FAIL session slots consistent\n")
		fmt.Printf("     Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("ok   session slots consistent\n")
	}

	// Check 3: server reachable
	if err := checkServerReachable(ctx); err != nil {
		fmt.Printf("FAIL server reachable (%s)\n", ctx.API.BaseURL())
		fmt.Printf("     Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("ok   server reachable (%s)\n", ctx.API.BaseURL())
	}

	// Check 4: no second client sharing the storage (warning only)
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("warn single client process\n")
		fmt.Printf("     %v\n", err)
	} else {
		fmt.Printf("ok   single client process\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("FAIL clock/timezone\n")
		fmt.Printf("     Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("ok   clock/timezone\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// checkSlotPair verifies the invariant that the credential and identity
// slots exist together or not at all.
func checkSlotPair(ctx *Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	hasToken, hasUser := false, false
	for _, k := range keys {
		switch k {
		case session.SlotToken:
			hasToken = true
		case session.SlotUser:
			hasUser = true
		}
	}
	if hasToken != hasUser {
		return fmt.Errorf("storage holds one of credential/identity without the other; run 'tracker logout' to reset")
	}
	return nil
}

func checkServerReachable(ctx *Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ctx.API.Ping(reqCtx)
}

func checkDuplicateProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}

	self := os.Getpid()
	name := filepath.Base(os.Args[0])
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.EqualFold(p.Executable(), name) {
			return fmt.Errorf("another %s process (pid %d) may be sharing the session storage", name, p.Pid())
		}
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
