package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"freightcore/config"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := Open(&config.DatabaseConfig{
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

// seedMarket sets up a customer, a driver with a truck, and the truck type
// referenced by freight bids in these tests.
func seedMarket(t *testing.T, db *DB) (customerID, driverID, truckID, truckTypeID int64) {
	t.Helper()
	var err error
	customerID, err = db.CreateCustomer("Acme Shipping", "555-0100")
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	driverID, err = db.CreateDriver("Pat Miller", "555-0200", 4.7)
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	truckTypeID, err = db.CreateTruckType("Flatbed", "")
	if err != nil {
		t.Fatalf("create truck type: %v", err)
	}
	truckID, err = db.CreateTruck(driverID, "TRK-100", &truckTypeID, "Volvo", "FH16")
	if err != nil {
		t.Fatalf("create truck: %v", err)
	}
	return
}

func newTestBid(customerID, truckTypeID int64) *FreightBid {
	return &FreightBid{
		CustomerID:       customerID,
		PickupLocation:   "12 Dock St",
		DeliveryLocation: "98 Depot Rd",
		TruckTypeID:      truckTypeID,
		CargoWeight:      "2t",
	}
}

// --- Reference data tests ---

func TestReferenceCRUD(t *testing.T) {
	db := testDB(t)

	id, err := db.CreateTruckType("Box Truck", "enclosed cargo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("id should be assigned")
	}

	ok, err := db.TruckTypeExists(id)
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v; want true", ok, err)
	}
	ok, _ = db.TruckTypeExists(9999)
	if ok {
		t.Error("exists for unknown id should be false")
	}

	if err := db.UpdateTruckType(id, "Box Truck", "enclosed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := db.UpdateTruckType(9999, "X", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown = %v, want ErrNotFound", err)
	}

	types, err := db.ListTruckTypes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(types) != 1 || types[0].Description != "enclosed" {
		t.Errorf("list = %+v", types)
	}

	if err := db.DeleteTruckType(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteTruckType(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete again = %v, want ErrNotFound", err)
	}
}

func TestSeedReferenceData(t *testing.T) {
	db := testDB(t)

	if err := db.SeedReferenceData(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	types, _ := db.ListTruckTypes()
	if len(types) == 0 {
		t.Fatal("expected seeded truck types")
	}
	before := len(types)

	// Second call must not duplicate.
	if err := db.SeedReferenceData(); err != nil {
		t.Fatalf("seed again: %v", err)
	}
	types, _ = db.ListTruckTypes()
	if len(types) != before {
		t.Errorf("truck types after reseed = %d, want %d", len(types), before)
	}
}

// --- Directory tests ---

func TestDirectoryOwnership(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, _ := seedMarket(t, db)

	ok, err := db.TruckBelongsToDriver(truckID, driverID)
	if err != nil || !ok {
		t.Fatalf("truck ownership = %v, %v; want true", ok, err)
	}
	otherDriver, _ := db.CreateDriver("Sam Reed", "555-0300", 4.1)
	ok, _ = db.TruckBelongsToDriver(truckID, otherDriver)
	if ok {
		t.Error("truck should not belong to another driver")
	}

	accountID, err := db.CreatePaymentAccount(customerID, "corporate card", "card")
	if err != nil {
		t.Fatalf("create payment account: %v", err)
	}
	ok, _ = db.PaymentAccountBelongsToCustomer(accountID, customerID)
	if !ok {
		t.Error("account should belong to its customer")
	}
	otherCustomer, _ := db.CreateCustomer("Globex", "555-0400")
	ok, _ = db.PaymentAccountBelongsToCustomer(accountID, otherCustomer)
	if ok {
		t.Error("account should not belong to another customer")
	}
}

// --- Freight bid tests ---

func TestFreightBidCRUD(t *testing.T) {
	db := testDB(t)
	customerID, _, _, truckTypeID := seedMarket(t, db)

	tagA, _ := db.CreateUseTag("Furniture", "")
	tagB, _ := db.CreateUseTag("Machinery", "")
	opt, _ := db.CreateHelpOption("Loading", "")

	b := newTestBid(customerID, truckTypeID)
	b.UseTagIDs = []int64{tagA, tagB, tagA} // duplicate collapses
	b.HelpOptionIDs = []int64{opt}
	id, err := db.CreateFreightBid(b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 || b.BidNumber == "" {
		t.Fatalf("id = %d, bidNumber = %q", id, b.BidNumber)
	}

	got, err := db.GetFreightBid(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != BidStatusRequested {
		t.Errorf("Status = %q, want requested", got.Status)
	}
	if len(got.UseTagIDs) != 2 {
		t.Errorf("UseTagIDs = %v, want 2 entries", got.UseTagIDs)
	}
	if len(got.HelpOptionIDs) != 1 {
		t.Errorf("HelpOptionIDs = %v, want 1 entry", got.HelpOptionIDs)
	}

	got2, err := db.GetFreightBidByNumber(b.BidNumber)
	if err != nil || got2.ID != id {
		t.Fatalf("getByNumber = %v, %v", got2, err)
	}

	got.CargoWeight = "3t"
	got.UseTagIDs = []int64{tagB}
	if err := db.UpdateFreightBid(got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got3, _ := db.GetFreightBid(id)
	if got3.CargoWeight != "3t" {
		t.Errorf("CargoWeight = %q, want 3t", got3.CargoWeight)
	}
	if len(got3.UseTagIDs) != 1 || got3.UseTagIDs[0] != tagB {
		t.Errorf("UseTagIDs after update = %v", got3.UseTagIDs)
	}

	hist, err := db.ListFreightBidHistory(id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 || hist[0].Status != BidStatusRequested {
		t.Errorf("history = %+v", hist)
	}
}

func TestFreightBidList(t *testing.T) {
	db := testDB(t)
	customerID, _, _, truckTypeID := seedMarket(t, db)

	var last int64
	for i := 0; i < 3; i++ {
		id, err := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		last = id
	}
	if err := db.TransitionFreightBid(last, BidStatusRequested, BidStatusOpen, "published"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	all, err := db.ListFreightBids("", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].ID != last {
		t.Errorf("first id = %d, want %d", all[0].ID, last)
	}

	open, _ := db.ListFreightBids(BidStatusOpen, 0)
	if len(open) != 1 {
		t.Errorf("open count = %d, want 1", len(open))
	}

	limited, _ := db.ListFreightBids("", 2)
	if len(limited) != 2 {
		t.Errorf("limited count = %d, want 2", len(limited))
	}

	byCustomer, _ := db.ListFreightBidsByCustomer(customerID)
	if len(byCustomer) != 3 {
		t.Errorf("byCustomer count = %d, want 3", len(byCustomer))
	}
}

func TestUpdateFreightBidTerminal(t *testing.T) {
	db := testDB(t)
	customerID, _, _, truckTypeID := seedMarket(t, db)

	b := newTestBid(customerID, truckTypeID)
	id, _ := db.CreateFreightBid(b)
	if err := db.CancelFreightBid(id, "shipper cancelled"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	b.ID = id
	b.CargoWeight = "5t"
	if err := db.UpdateFreightBid(b); !errors.Is(err, ErrInvalidState) {
		t.Errorf("update cancelled bid = %v, want ErrInvalidState", err)
	}
}

// --- Transition tests ---

func TestTransitionFreightBid(t *testing.T) {
	db := testDB(t)
	customerID, _, _, truckTypeID := seedMarket(t, db)
	id, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))

	if err := db.TransitionFreightBid(id, BidStatusRequested, BidStatusOpen, "published"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, _ := db.GetFreightBid(id)
	if got.Status != BidStatusOpen {
		t.Errorf("Status = %q, want bid_open", got.Status)
	}

	// Wrong expected status.
	if err := db.TransitionFreightBid(id, BidStatusRequested, BidStatusOpen, ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("re-publish = %v, want ErrInvalidState", err)
	}

	// Unknown bid.
	if err := db.TransitionFreightBid(9999, BidStatusRequested, BidStatusOpen, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown bid = %v, want ErrNotFound", err)
	}
}

func TestTransitionCompletedSetsTimestamp(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)
	id, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(id, BidStatusRequested, BidStatusOpen, "")
	bidID, _ := db.CreateDriverBid(&DriverBid{FreightBidID: id, DriverID: driverID, TruckID: truckID, Amount: 120})
	if _, err := db.AssignDriver(id, bidID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	db.TransitionFreightBid(id, BidStatusAssigned, BidStatusInProgress, "")
	if err := db.TransitionFreightBid(id, BidStatusInProgress, BidStatusCompleted, "delivered"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, _ := db.GetFreightBid(id)
	if got.CompletedAt == nil {
		t.Error("CompletedAt should be set on completion")
	}
}

// --- Driver bid tests ---

func TestDriverBidLifecycle(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)
	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))

	// Bidding before publish is refused.
	d := &DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100}
	if _, err := db.CreateDriverBid(d); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("bid on requested = %v, want ErrInvalidState", err)
	}

	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	id, err := db.CreateDriverBid(d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := db.GetDriverBid(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != DriverBidPending || got.Amount != 100 {
		t.Errorf("got = %+v", got)
	}

	if err := db.UpdateDriverBid(id, 90, "can do it cheaper"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = db.GetDriverBid(id)
	if got.Amount != 90 {
		t.Errorf("Amount = %v, want 90", got.Amount)
	}

	if err := db.WithdrawDriverBid(id); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	got, _ = db.GetDriverBid(id)
	if got.Status != DriverBidWithdrawn {
		t.Errorf("Status = %q, want withdrawn", got.Status)
	}

	// Withdrawn bids are immutable.
	if err := db.UpdateDriverBid(id, 80, ""); !errors.Is(err, ErrInvalidState) {
		t.Errorf("update withdrawn = %v, want ErrInvalidState", err)
	}
	if err := db.WithdrawDriverBid(id); !errors.Is(err, ErrInvalidState) {
		t.Errorf("withdraw again = %v, want ErrInvalidState", err)
	}

	// Unknown bid.
	if err := db.WithdrawDriverBid(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("withdraw unknown = %v, want ErrNotFound", err)
	}

	total, pending, err := db.CountDriverBids(fbID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 || pending != 0 {
		t.Errorf("total = %d, pending = %d; want 1, 0", total, pending)
	}
}

func TestDriverBidOnUnknownFreightBid(t *testing.T) {
	db := testDB(t)
	_, driverID, truckID, _ := seedMarket(t, db)

	d := &DriverBid{FreightBidID: 9999, DriverID: driverID, TruckID: truckID, Amount: 50}
	if _, err := db.CreateDriverBid(d); !errors.Is(err, ErrNotFound) {
		t.Errorf("create = %v, want ErrNotFound", err)
	}
}

func TestDeleteDriverBid(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)

	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	bidID, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})

	if err := db.DeleteDriverBid(bidID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetDriverBid(bidID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted = %v, want ErrNotFound", err)
	}
	if err := db.DeleteDriverBid(bidID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete again = %v, want ErrNotFound", err)
	}

	// Accepted bids are protected.
	bid2, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 95})
	if _, err := db.AssignDriver(fbID, bid2); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := db.DeleteDriverBid(bid2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("delete accepted = %v, want ErrInvalidState", err)
	}
}

// --- Assignment tests ---

func TestAssignDriver(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)
	driver2, _ := db.CreateDriver("Sam Reed", "555-0300", 4.0)
	truck2, _ := db.CreateTruck(driver2, "TRK-200", &truckTypeID, "Scania", "R500")

	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")

	bid1, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})
	bid2, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driver2, TruckID: truck2, Amount: 95})

	res, err := db.AssignDriver(fbID, bid1)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.DriverID != driverID || res.TruckID != truckID {
		t.Errorf("result = %+v", res)
	}
	if res.RejectedBids != 1 {
		t.Errorf("RejectedBids = %d, want 1", res.RejectedBids)
	}

	fb, _ := db.GetFreightBid(fbID)
	if fb.Status != BidStatusAssigned {
		t.Errorf("Status = %q, want assigned", fb.Status)
	}
	if fb.AssignedDriverID == nil || *fb.AssignedDriverID != driverID {
		t.Errorf("AssignedDriverID = %v, want %d", fb.AssignedDriverID, driverID)
	}
	if fb.AssignedTruckID == nil || *fb.AssignedTruckID != truckID {
		t.Errorf("AssignedTruckID = %v, want %d", fb.AssignedTruckID, truckID)
	}

	winner, _ := db.GetDriverBid(bid1)
	if winner.Status != DriverBidAccepted {
		t.Errorf("winner status = %q, want accepted", winner.Status)
	}
	loser, _ := db.GetDriverBid(bid2)
	if loser.Status != DriverBidRejected {
		t.Errorf("loser status = %q, want rejected", loser.Status)
	}

	// Second assignment on the same freight bid must fail.
	if _, err := db.AssignDriver(fbID, bid2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double assign = %v, want ErrInvalidState", err)
	}

	hist, _ := db.ListFreightBidHistory(fbID)
	// requested, bid_open, accepted, assigned
	if len(hist) != 4 {
		t.Errorf("history len = %d, want 4", len(hist))
	}
}

func TestAssignDriverRollsBackOnFault(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)
	driver2, _ := db.CreateDriver("Sam Reed", "555-0300", 4.0)
	truck2, _ := db.CreateTruck(driver2, "TRK-200", &truckTypeID, "Scania", "R500")

	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	bid1, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})
	bid2, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driver2, TruckID: truck2, Amount: 95})

	// Fail the transaction after the accept and sibling-reject updates
	// have run; every one of them has to roll back.
	assignFaultHook = func() error { return errors.New("disk I/O error") }
	defer func() { assignFaultHook = nil }()

	if _, err := db.AssignDriver(fbID, bid1); err == nil {
		t.Fatal("expected the faulted assignment to fail")
	}

	fb, _ := db.GetFreightBid(fbID)
	if fb.Status != BidStatusOpen {
		t.Errorf("freight bid status = %q, want bid_open untouched", fb.Status)
	}
	if fb.AssignedDriverID != nil || fb.AssignedTruckID != nil {
		t.Errorf("assignment columns set: driver=%v truck=%v", fb.AssignedDriverID, fb.AssignedTruckID)
	}
	for _, id := range []int64{bid1, bid2} {
		d, _ := db.GetDriverBid(id)
		if d.Status != DriverBidPending {
			t.Errorf("driver bid %d status = %q, want pending", id, d.Status)
		}
	}
	hist, _ := db.ListFreightBidHistory(fbID)
	// requested, bid_open only; the accepted/assigned rows rolled back.
	if len(hist) != 2 {
		t.Errorf("history len = %d, want 2", len(hist))
	}

	// With the fault cleared the same assignment goes through.
	assignFaultHook = nil
	res, err := db.AssignDriver(fbID, bid1)
	if err != nil {
		t.Fatalf("assign after fault cleared: %v", err)
	}
	if res.DriverID != driverID {
		t.Errorf("DriverID = %d, want %d", res.DriverID, driverID)
	}
}

func TestAssignDriverMismatchedBid(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)

	fb1, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	fb2, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fb1, BidStatusRequested, BidStatusOpen, "")
	db.TransitionFreightBid(fb2, BidStatusRequested, BidStatusOpen, "")

	bidOnFb2, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fb2, DriverID: driverID, TruckID: truckID, Amount: 70})

	// Driver bid belongs to a different freight bid.
	if _, err := db.AssignDriver(fb1, bidOnFb2); !errors.Is(err, ErrNotFound) {
		t.Errorf("mismatched assign = %v, want ErrNotFound", err)
	}

	// Unknown driver bid.
	if _, err := db.AssignDriver(fb1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown driver bid = %v, want ErrNotFound", err)
	}
}

func TestAssignDriverWithdrawnBid(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)

	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	bidID, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})
	db.WithdrawDriverBid(bidID)

	if _, err := db.AssignDriver(fbID, bidID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("assign withdrawn bid = %v, want ErrInvalidState", err)
	}

	fb, _ := db.GetFreightBid(fbID)
	if fb.Status != BidStatusOpen {
		t.Errorf("freight bid status = %q, want bid_open untouched", fb.Status)
	}
}

// --- Cancel and delete tests ---

func TestCancelFreightBid(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)

	fbID, _ := db.CreateFreightBid(newTestBid(customerID, truckTypeID))
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	bidID, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})

	if err := db.CancelFreightBid(fbID, "no longer needed"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	fb, _ := db.GetFreightBid(fbID)
	if fb.Status != BidStatusCancelled {
		t.Errorf("Status = %q, want cancelled", fb.Status)
	}
	d, _ := db.GetDriverBid(bidID)
	if d.Status != DriverBidWithdrawn {
		t.Errorf("driver bid status = %q, want withdrawn", d.Status)
	}

	if err := db.CancelFreightBid(fbID, "again"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("cancel cancelled = %v, want ErrInvalidState", err)
	}
}

func TestDeleteFreightBid(t *testing.T) {
	db := testDB(t)
	customerID, driverID, truckID, truckTypeID := seedMarket(t, db)
	tag, _ := db.CreateUseTag("General", "")

	b := newTestBid(customerID, truckTypeID)
	b.UseTagIDs = []int64{tag}
	fbID, _ := db.CreateFreightBid(b)
	db.TransitionFreightBid(fbID, BidStatusRequested, BidStatusOpen, "")
	bidID, _ := db.CreateDriverBid(&DriverBid{FreightBidID: fbID, DriverID: driverID, TruckID: truckID, Amount: 100})

	if err := db.DeleteFreightBid(fbID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetFreightBid(fbID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted = %v, want ErrNotFound", err)
	}
	if _, err := db.GetDriverBid(bidID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get driver bid of deleted = %v, want ErrNotFound", err)
	}
	if err := db.DeleteFreightBid(fbID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete again = %v, want ErrNotFound", err)
	}
}

// --- Outbox tests ---

func TestOutbox(t *testing.T) {
	db := testDB(t)

	if err := db.EnqueueOutbox("freight.bids", []byte(`{"x":1}`), "bid_assigned", "driver-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	db.EnqueueOutbox("freight.bids", []byte(`{"x":2}`), "bid_cancelled", "")

	pending, err := db.ListPendingOutbox(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].MsgType != "bid_assigned" || pending[0].PartyID != "driver-1" {
		t.Errorf("first = %+v", pending[0])
	}

	if err := db.AckOutbox(pending[0].ID); err != nil {
		t.Fatalf("ack: %v", err)
	}
	pending, _ = db.ListPendingOutbox(10)
	if len(pending) != 1 {
		t.Errorf("pending after ack = %d, want 1", len(pending))
	}

	if err := db.IncrementOutboxRetries(pending[0].ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	pending, _ = db.ListPendingOutbox(10)
	if pending[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", pending[0].Retries)
	}
}

// --- Retry tests ---

func TestRetryPolicy(t *testing.T) {
	calls := 0
	p := DefaultRetryPolicy(3, 0)
	err := p.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	// Domain errors never retry.
	calls = 0
	err = p.Do(func() error {
		calls++
		return ErrConflict
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("do = %v, want ErrConflict", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	// Exhausted attempts return the last error.
	calls = 0
	err = p.Do(func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	if err == nil || calls != 3 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil should not be transient")
	}
	if IsTransient(ErrNotFound) || IsTransient(ErrInvalidState) || IsTransient(ErrConflict) {
		t.Error("domain errors should not be transient")
	}
	if !IsTransient(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("sqlite busy should be transient")
	}
	if IsTransient(errors.New("UNIQUE constraint failed")) {
		t.Error("constraint violation should not be transient")
	}
}

// --- Audit trail ---

func TestAuditTrail(t *testing.T) {
	db := testDB(t)

	if err := db.AppendAudit(AuditFreightBid, 1, "created", "", "FB-001", "system"); err != nil {
		t.Fatalf("append: %v", err)
	}
	db.AppendAudit(AuditFreightBid, 1, "status", "requested", "bid_open", "system")
	db.AppendAudit(AuditDriverBid, 7, "placed", "", "freight_bid=1 amount=100.00", "system")

	entries, err := db.ListAuditLog(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	// Newest first.
	if entries[0].EntityType != AuditDriverBid || entries[0].Action != "placed" {
		t.Errorf("first = %+v", entries[0])
	}

	forBid, err := db.ListEntityAudit(AuditFreightBid, 1)
	if err != nil {
		t.Fatalf("entity list: %v", err)
	}
	if len(forBid) != 2 {
		t.Fatalf("forBid = %d, want 2", len(forBid))
	}
	if forBid[0].OldValue != "requested" || forBid[0].NewValue != "bid_open" {
		t.Errorf("status entry = %+v", forBid[0])
	}

	limited, _ := db.ListAuditLog(1)
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}
}

// --- Admin users ---

func TestAdminUsers(t *testing.T) {
	db := testDB(t)

	exists, err := db.AdminUserExists()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("fresh db should have no admin users")
	}

	if err := db.CreateAdminUser("admin", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, err := db.GetAdminUser("admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.PasswordHash != "hash" {
		t.Errorf("hash = %q", u.PasswordHash)
	}
	exists, _ = db.AdminUserExists()
	if !exists {
		t.Error("admin user should exist")
	}
}
