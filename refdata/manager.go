package refdata

import (
	"context"
	"log"

	"freightcore/store"
)

// Entity kinds tracked by the existence cache. The names double as the
// backing table names.
const (
	KindTruckTypes      = "truck_types"
	KindTruckCategories = "truck_categories"
	KindBedTypes        = "bed_types"
	KindUseTags         = "use_tags"
	KindHelpOptions     = "help_options"
	KindCustomers       = "customers"
	KindDrivers         = "drivers"
	KindTrucks          = "trucks"
	KindPaymentAccounts = "payment_accounts"
)

var kinds = []string{
	KindTruckTypes, KindTruckCategories, KindBedTypes, KindUseTags, KindHelpOptions,
	KindCustomers, KindDrivers, KindTrucks, KindPaymentAccounts,
}

// Manager answers existence checks for reference and directory ids:
// Redis first, SQL on a cold or unavailable cache. Writes to the backing
// tables go through SQL and then refresh the cached set.
type Manager struct {
	db    *store.DB
	redis *RedisStore
}

// NewManager builds a manager. redis may be nil, in which case every
// check goes straight to SQL.
func NewManager(db *store.DB, redis *RedisStore) *Manager {
	return &Manager{db: db, redis: redis}
}

func (m *Manager) resolve(kind string, id int64, sqlCheck func(int64) (bool, error)) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	if m.redis != nil {
		ok, found, err := m.redis.HasID(context.Background(), kind, id)
		if err == nil && found {
			return ok, nil
		}
		if err != nil {
			log.Printf("refdata: redis check %s/%d: %v", kind, id, err)
		}
	}
	return sqlCheck(id)
}

func (m *Manager) ResolveTruckType(id int64) (bool, error) {
	return m.resolve(KindTruckTypes, id, m.db.TruckTypeExists)
}

func (m *Manager) ResolveTruckCategory(id int64) (bool, error) {
	return m.resolve(KindTruckCategories, id, m.db.TruckCategoryExists)
}

func (m *Manager) ResolveBedType(id int64) (bool, error) {
	return m.resolve(KindBedTypes, id, m.db.BedTypeExists)
}

func (m *Manager) ResolveUseTag(id int64) (bool, error) {
	return m.resolve(KindUseTags, id, m.db.UseTagExists)
}

func (m *Manager) ResolveHelpOption(id int64) (bool, error) {
	return m.resolve(KindHelpOptions, id, m.db.HelpOptionExists)
}

func (m *Manager) ResolvePaymentAccount(id int64) (bool, error) {
	return m.resolve(KindPaymentAccounts, id, m.db.PaymentAccountExists)
}

func (m *Manager) ResolveCustomer(id int64) (bool, error) {
	return m.resolve(KindCustomers, id, m.db.CustomerExists)
}

func (m *Manager) ResolveDriver(id int64) (bool, error) {
	return m.resolve(KindDrivers, id, m.db.DriverExists)
}

func (m *Manager) ResolveTruck(id int64) (bool, error) {
	return m.resolve(KindTrucks, id, m.db.TruckExists)
}

// Refresh rebuilds one kind's cached id set from SQL. Called after any
// write to the backing table.
func (m *Manager) Refresh(kind string) {
	if m.redis == nil {
		return
	}
	ids, err := m.db.ListIDs(kind)
	if err != nil {
		log.Printf("refdata: list %s ids: %v", kind, err)
		return
	}
	if err := m.redis.SetIDs(context.Background(), kind, ids); err != nil {
		log.Printf("refdata: refresh %s: %v", kind, err)
	}
}

// SyncRedisFromSQL rebuilds the whole existence cache. Called on startup.
func (m *Manager) SyncRedisFromSQL() error {
	if m.redis == nil {
		return nil
	}
	ctx := context.Background()
	if err := m.redis.Flush(ctx, kinds); err != nil {
		return err
	}
	for _, kind := range kinds {
		ids, err := m.db.ListIDs(kind)
		if err != nil {
			return err
		}
		if err := m.redis.SetIDs(ctx, kind, ids); err != nil {
			return err
		}
	}
	log.Printf("refdata: synced %d kinds to redis", len(kinds))
	return nil
}
