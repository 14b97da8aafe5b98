package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Freight bid lifecycle statuses. Transitions between them are enforced
// by the match package; the store only guards the compare-and-set writes.
const (
	BidStatusRequested  = "requested"
	BidStatusOpen       = "bid_open"
	BidStatusAccepted   = "accepted"
	BidStatusAssigned   = "assigned"
	BidStatusInProgress = "in_progress"
	BidStatusCompleted  = "completed"
	BidStatusCancelled  = "cancelled"
)

type FreightBid struct {
	ID                  int64      `json:"id"`
	BidNumber           string     `json:"bidNumber"`
	CustomerID          int64      `json:"customerId"`
	Status              string     `json:"status"`
	PickupLocation      string     `json:"pickupLocation"`
	PickupLat           *float64   `json:"pickupLat"`
	PickupLng           *float64   `json:"pickupLng"`
	DeliveryLocation    string     `json:"deliveryLocation"`
	DeliveryLat         *float64   `json:"deliveryLat"`
	DeliveryLng         *float64   `json:"deliveryLng"`
	TruckTypeID         int64      `json:"truckTypeId"`
	TruckCategoryID     *int64     `json:"truckCategoryId"`
	BedTypeID           *int64     `json:"bedTypeId"`
	TruckMake           string     `json:"truckMake"`
	TruckModel          string     `json:"truckModel"`
	CargoWeight         string     `json:"cargoWeight"`
	SpecialInstructions string     `json:"specialInstructions"`
	Insured             bool       `json:"insured"`
	TravelWithPayload   bool       `json:"travelWithPayload"`
	TravelRequirement   string     `json:"travelRequirement"`
	ExpressService      bool       `json:"expressService"`
	PaymentAccountID    *int64     `json:"paymentAccountId"`
	AssignedDriverID    *int64     `json:"assignedDriverId"`
	AssignedTruckID     *int64     `json:"assignedTruckId"`
	UseTagIDs           []int64    `json:"useTagIds"`
	HelpOptionIDs       []int64    `json:"helpOptionIds"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	CompletedAt         *time.Time `json:"completedAt"`
}

type FreightBidHistory struct {
	ID           int64     `json:"id"`
	FreightBidID int64     `json:"freightBidId"`
	Status       string    `json:"status"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewBidNumber generates a short public identifier for a freight bid.
func NewBidNumber() string {
	return fmt.Sprintf("FB-%s", strings.ToUpper(uuid.New().String()[:8]))
}

const freightBidColumns = `id, bid_number, customer_id, status, pickup_location, pickup_lat, pickup_lng,
	delivery_location, delivery_lat, delivery_lng, truck_type_id, truck_category_id, bed_type_id,
	truck_make, truck_model, cargo_weight, special_instructions, insured, travel_with_payload,
	travel_requirement, express_service, payment_account_id, assigned_driver_id, assigned_truck_id,
	created_at, updated_at, completed_at`

func scanFreightBid(row interface{ Scan(...any) error }) (*FreightBid, error) {
	var b FreightBid
	var created, updated, completed any
	err := row.Scan(&b.ID, &b.BidNumber, &b.CustomerID, &b.Status, &b.PickupLocation, &b.PickupLat, &b.PickupLng,
		&b.DeliveryLocation, &b.DeliveryLat, &b.DeliveryLng, &b.TruckTypeID, &b.TruckCategoryID, &b.BedTypeID,
		&b.TruckMake, &b.TruckModel, &b.CargoWeight, &b.SpecialInstructions, &b.Insured, &b.TravelWithPayload,
		&b.TravelRequirement, &b.ExpressService, &b.PaymentAccountID, &b.AssignedDriverID, &b.AssignedTruckID,
		&created, &updated, &completed)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	if completed != nil {
		b.CompletedAt = parseTimePtr(completed)
	}
	return &b, nil
}

// CreateFreightBid inserts the bid, its tag and help option links, and the
// initial history row in one transaction. Duplicate tag or option ids in
// the request are collapsed before insert.
func (db *DB) CreateFreightBid(b *FreightBid) (int64, error) {
	if b.BidNumber == "" {
		b.BidNumber = NewBidNumber()
	}
	if b.Status == "" {
		b.Status = BidStatusRequested
	}
	var id int64
	err := db.inTx(func(tx *sql.Tx) error {
		var err error
		id, err = db.insertID(tx, `INSERT INTO freight_bids
			(bid_number, customer_id, status, pickup_location, pickup_lat, pickup_lng,
			 delivery_location, delivery_lat, delivery_lng, truck_type_id, truck_category_id, bed_type_id,
			 truck_make, truck_model, cargo_weight, special_instructions, insured, travel_with_payload,
			 travel_requirement, express_service, payment_account_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.BidNumber, b.CustomerID, b.Status, b.PickupLocation, b.PickupLat, b.PickupLng,
			b.DeliveryLocation, b.DeliveryLat, b.DeliveryLng, b.TruckTypeID, b.TruckCategoryID, b.BedTypeID,
			b.TruckMake, b.TruckModel, b.CargoWeight, b.SpecialInstructions, b.Insured, b.TravelWithPayload,
			b.TravelRequirement, b.ExpressService, b.PaymentAccountID)
		if err != nil {
			return fmt.Errorf("insert freight bid: %w", err)
		}
		if err := db.replaceBidLinks(tx, id, b.UseTagIDs, b.HelpOptionIDs); err != nil {
			return err
		}
		if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_history (freight_bid_id, status, detail) VALUES (?, ?, ?)`),
			id, b.Status, "created"); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	b.ID = id
	return id, nil
}

func (db *DB) replaceBidLinks(tx *sql.Tx, bidID int64, useTagIDs, helpOptionIDs []int64) error {
	if _, err := tx.Exec(db.Q(`DELETE FROM freight_bid_use_tags WHERE freight_bid_id = ?`), bidID); err != nil {
		return fmt.Errorf("clear use tags: %w", err)
	}
	if _, err := tx.Exec(db.Q(`DELETE FROM freight_bid_help_options WHERE freight_bid_id = ?`), bidID); err != nil {
		return fmt.Errorf("clear help options: %w", err)
	}
	for _, tagID := range dedupe(useTagIDs) {
		if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_use_tags (freight_bid_id, use_tag_id) VALUES (?, ?)`), bidID, tagID); err != nil {
			return fmt.Errorf("insert use tag link: %w", err)
		}
	}
	for _, optID := range dedupe(helpOptionIDs) {
		if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_help_options (freight_bid_id, help_option_id) VALUES (?, ?)`), bidID, optID); err != nil {
			return fmt.Errorf("insert help option link: %w", err)
		}
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (db *DB) FreightBidExists(id int64) (bool, error) { return db.namedExists("freight_bids", id) }

func (db *DB) GetFreightBid(id int64) (*FreightBid, error) {
	row := db.QueryRow(db.Q(`SELECT `+freightBidColumns+` FROM freight_bids WHERE id = ?`), id)
	b, err := scanFreightBid(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := db.loadBidLinks(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) GetFreightBidByNumber(bidNumber string) (*FreightBid, error) {
	row := db.QueryRow(db.Q(`SELECT `+freightBidColumns+` FROM freight_bids WHERE bid_number = ?`), bidNumber)
	b, err := scanFreightBid(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := db.loadBidLinks(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) loadBidLinks(b *FreightBid) error {
	rows, err := db.Query(db.Q(`SELECT use_tag_id FROM freight_bid_use_tags WHERE freight_bid_id = ? ORDER BY use_tag_id`), b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		b.UseTagIDs = append(b.UseTagIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	optRows, err := db.Query(db.Q(`SELECT help_option_id FROM freight_bid_help_options WHERE freight_bid_id = ? ORDER BY help_option_id`), b.ID)
	if err != nil {
		return err
	}
	defer optRows.Close()
	for optRows.Next() {
		var id int64
		if err := optRows.Scan(&id); err != nil {
			return err
		}
		b.HelpOptionIDs = append(b.HelpOptionIDs, id)
	}
	return optRows.Err()
}

// ListFreightBids returns bids newest first, optionally filtered by status.
// A limit of 0 means no limit.
func (db *DB) ListFreightBids(status string, limit int) ([]FreightBid, error) {
	query := `SELECT ` + freightBidColumns + ` FROM freight_bids`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return db.queryFreightBids(query, args...)
}

func (db *DB) ListFreightBidsByCustomer(customerID int64) ([]FreightBid, error) {
	return db.queryFreightBids(`SELECT `+freightBidColumns+` FROM freight_bids WHERE customer_id = ? ORDER BY id DESC`, customerID)
}

func (db *DB) queryFreightBids(query string, args ...any) ([]FreightBid, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FreightBid
	for rows.Next() {
		b, err := scanFreightBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := db.loadBidLinks(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateFreightBid replaces the mutable fields of a bid. The write is
// refused once the bid has reached a terminal status.
func (db *DB) UpdateFreightBid(b *FreightBid) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM freight_bids WHERE id = ?`), b.ID).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status == BidStatusCompleted || status == BidStatusCancelled {
			return ErrInvalidState
		}
		res, err := tx.Exec(db.Q(`UPDATE freight_bids SET
			pickup_location = ?, pickup_lat = ?, pickup_lng = ?,
			delivery_location = ?, delivery_lat = ?, delivery_lng = ?,
			truck_type_id = ?, truck_category_id = ?, bed_type_id = ?,
			truck_make = ?, truck_model = ?, cargo_weight = ?, special_instructions = ?,
			insured = ?, travel_with_payload = ?, travel_requirement = ?, express_service = ?,
			payment_account_id = ?, updated_at = datetime('now','localtime')
			WHERE id = ?`),
			b.PickupLocation, b.PickupLat, b.PickupLng,
			b.DeliveryLocation, b.DeliveryLat, b.DeliveryLng,
			b.TruckTypeID, b.TruckCategoryID, b.BedTypeID,
			b.TruckMake, b.TruckModel, b.CargoWeight, b.SpecialInstructions,
			b.Insured, b.TravelWithPayload, b.TravelRequirement, b.ExpressService,
			b.PaymentAccountID, b.ID)
		if err != nil {
			return fmt.Errorf("update freight bid: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrNotFound
		}
		return db.replaceBidLinks(tx, b.ID, b.UseTagIDs, b.HelpOptionIDs)
	})
}

func (db *DB) ListFreightBidHistory(bidID int64) ([]FreightBidHistory, error) {
	rows, err := db.Query(db.Q(`SELECT id, freight_bid_id, status, detail, created_at FROM freight_bid_history WHERE freight_bid_id = ? ORDER BY id`), bidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FreightBidHistory
	for rows.Next() {
		var h FreightBidHistory
		var created any
		if err := rows.Scan(&h.ID, &h.FreightBidID, &h.Status, &h.Detail, &created); err != nil {
			return nil, err
		}
		h.CreatedAt = parseTime(created)
		out = append(out, h)
	}
	return out, rows.Err()
}

// CountFreightBids returns totals per status for the status board.
func (db *DB) CountFreightBids() (map[string]int, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM freight_bids GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
