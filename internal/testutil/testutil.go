// Package testutil provides shared test fixtures: plan states, deterministic
// ids and temporary plan stores.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/storage"
)

// Rectangle is a 40 x 25 ft plan with nothing on it.
func Rectangle() floorplan.State {
	return floorplan.State{
		Vertices:   []floorplan.Vertex{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 25}, {X: 0, Y: 25}},
		WallHeight: floorplan.DefaultWallHeight,
	}
}

// IDs returns a generator yielding prefix-1, prefix-2 and so on.
func IDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// TempDBPath returns the path of a fresh SQLite file that is removed after
// the test.
func TempDBPath(t *testing.T) string {
	t.Helper()
	dbFile, err := os.CreateTemp("", "plans-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	return dbFile.Name()
}

// TestStore creates a temporary plan directory with a storage.Provider.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// FileAdapter returns a persistence adapter over a temporary directory.
func FileAdapter(t *testing.T) *persistence.Adapter {
	t.Helper()
	_, store := TestStore(t)
	return persistence.NewAdapter(persistence.NewFile(store))
}
