package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"freightcore/config"
	"freightcore/store"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: dbPath},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})
	return db
}

// With no redis configured the manager must answer from SQL alone.
func TestResolveSQLFallback(t *testing.T) {
	db := testDB(t)
	m := NewManager(db, nil)

	id, err := db.CreateTruckType("Flatbed", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := m.ResolveTruckType(id)
	if err != nil || !ok {
		t.Fatalf("resolve = %v, %v; want true", ok, err)
	}
	ok, _ = m.ResolveTruckType(9999)
	if ok {
		t.Error("unknown id should not resolve")
	}
	ok, _ = m.ResolveTruckType(0)
	if ok {
		t.Error("zero id should not resolve")
	}

	custID, _ := db.CreateCustomer("Acme", "555-0100")
	ok, _ = m.ResolveCustomer(custID)
	if !ok {
		t.Error("customer should resolve")
	}
	ok, _ = m.ResolveDriver(custID)
	if ok {
		t.Error("customer id should not resolve as driver")
	}
}

func TestListIDs(t *testing.T) {
	db := testDB(t)
	a, _ := db.CreateUseTag("Furniture", "")
	b, _ := db.CreateUseTag("Machinery", "")

	ids, err := db.ListIDs(KindUseTags)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want 2", ids)
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[a] || !seen[b] {
		t.Errorf("ids = %v, want both created tags", ids)
	}
}
