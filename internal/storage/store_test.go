package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func providers(t *testing.T) map[string]func() Provider {
	t.Helper()
	dir := t.TempDir()
	return map[string]func() Provider{
		"json": func() Provider {
			return NewJSONStore(filepath.Join(dir, "slots.json"))
		},
		"sqlite": func() Provider {
			return NewSQLiteStore(filepath.Join(dir, "slots.db"))
		},
	}
}

func TestSetGetDelete(t *testing.T) {
	for name, newStore := range providers(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			if err := store.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer store.Close()

			if _, err := store.Get("token"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound for missing key, got %v", err)
			}

			if err := store.Set("token", "abc123"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := store.Get("token")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != "abc123" {
				t.Errorf("Get = %q, want %q", got, "abc123")
			}

			if err := store.Set("token", "def456"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, _ = store.Get("token")
			if got != "def456" {
				t.Errorf("Get after overwrite = %q, want %q", got, "def456")
			}

			if err := store.Delete("token"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := store.Get("token"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
			}

			// Deleting an absent key is not an error
			if err := store.Delete("token"); err != nil {
				t.Errorf("Delete of absent key failed: %v", err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	for name, newStore := range providers(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()
			if err := store.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer store.Close()

			for _, k := range []string{"user", "token"} {
				if err := store.Set(k, "v"); err != nil {
					t.Fatalf("Set(%q) failed: %v", k, err)
				}
			}

			keys, err := store.Keys()
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 || keys[0] != "token" || keys[1] != "user" {
				t.Errorf("Keys = %v, want [token user]", keys)
			}
		})
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"json":   filepath.Join(dir, "slots.json"),
		"sqlite": filepath.Join(dir, "slots.db"),
	}
	open := func(kind string) Provider {
		if kind == "json" {
			return NewJSONStore(paths[kind])
		}
		return NewSQLiteStore(paths[kind])
	}

	for kind := range paths {
		t.Run(kind, func(t *testing.T) {
			store := open(kind)
			if err := store.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if err := store.Set("token", "persisted"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			reopened := open(kind)
			if err := reopened.Init(); err != nil {
				t.Fatalf("reopen Init failed: %v", err)
			}
			defer reopened.Close()

			got, err := reopened.Get("token")
			if err != nil {
				t.Fatalf("Get after reopen failed: %v", err)
			}
			if got != "persisted" {
				t.Errorf("Get after reopen = %q, want %q", got, "persisted")
			}
		})
	}
}

func TestJSONStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("token", "secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("storage file mode = %o, want 0600", perm)
	}
}

func TestJSONStoreRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	if err := os.WriteFile(path, []byte(`{corrupt`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init on corrupt file failed: %v", err)
	}
	if _, err := store.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected empty store after corrupt file, got %v", err)
	}
	if err := store.Set("token", "v"); err != nil {
		t.Errorf("Set on recovered store failed: %v", err)
	}

	// The recovered state must survive a reopen.
	reopened := NewJSONStore(path)
	if err := reopened.Init(); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	if got, err := reopened.Get("token"); err != nil || got != "v" {
		t.Errorf("Get after reopen = %q, %v, want %q", got, err, "v")
	}
}

func TestJSONStoreRecoversFromMissingSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	if err := os.WriteFile(path, []byte(`{"version":1}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("token", "v"); err != nil {
		t.Errorf("Set on recovered store failed: %v", err)
	}
}
