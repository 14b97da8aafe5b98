package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Driver bid statuses. A pending bid can be accepted, rejected, or
// withdrawn; the other three are terminal.
const (
	DriverBidPending   = "pending"
	DriverBidAccepted  = "accepted"
	DriverBidRejected  = "rejected"
	DriverBidWithdrawn = "withdrawn"
)

type DriverBid struct {
	ID           int64     `json:"id"`
	FreightBidID int64     `json:"freightBidId"`
	DriverID     int64     `json:"driverId"`
	TruckID      int64     `json:"truckId"`
	Amount       float64   `json:"amount"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func scanDriverBid(row interface{ Scan(...any) error }) (*DriverBid, error) {
	var d DriverBid
	var submitted, updated any
	err := row.Scan(&d.ID, &d.FreightBidID, &d.DriverID, &d.TruckID, &d.Amount, &d.Message, &d.Status, &submitted, &updated)
	if err != nil {
		return nil, err
	}
	d.SubmittedAt = parseTime(submitted)
	d.UpdatedAt = parseTime(updated)
	return &d, nil
}

const driverBidColumns = `id, freight_bid_id, driver_id, truck_id, amount, message, status, submitted_at, updated_at`

// CreateDriverBid inserts a bid after checking, in the same transaction,
// that the freight bid exists and is still open for bidding.
func (db *DB) CreateDriverBid(d *DriverBid) (int64, error) {
	if d.Status == "" {
		d.Status = DriverBidPending
	}
	var id int64
	err := db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM freight_bids WHERE id = ?`), d.FreightBidID).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status != BidStatusOpen {
			return ErrInvalidState
		}
		id, err = db.insertID(tx, `INSERT INTO driver_bids (freight_bid_id, driver_id, truck_id, amount, message, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.FreightBidID, d.DriverID, d.TruckID, d.Amount, d.Message, d.Status)
		if err != nil {
			return fmt.Errorf("insert driver bid: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.ID = id
	return id, nil
}

func (db *DB) GetDriverBid(id int64) (*DriverBid, error) {
	row := db.QueryRow(db.Q(`SELECT `+driverBidColumns+` FROM driver_bids WHERE id = ?`), id)
	d, err := scanDriverBid(row)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (db *DB) ListDriverBidsByFreightBid(freightBidID int64) ([]DriverBid, error) {
	return db.queryDriverBids(`SELECT `+driverBidColumns+` FROM driver_bids WHERE freight_bid_id = ? ORDER BY id`, freightBidID)
}

func (db *DB) ListDriverBidsByDriver(driverID int64) ([]DriverBid, error) {
	return db.queryDriverBids(`SELECT `+driverBidColumns+` FROM driver_bids WHERE driver_id = ? ORDER BY id DESC`, driverID)
}

func (db *DB) queryDriverBids(query string, args ...any) ([]DriverBid, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DriverBid
	for rows.Next() {
		d, err := scanDriverBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateDriverBid revises the amount and message of a pending bid. Bids
// already accepted, rejected, or withdrawn are immutable.
func (db *DB) UpdateDriverBid(id int64, amount float64, message string) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM driver_bids WHERE id = ?`), id).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status != DriverBidPending {
			return ErrInvalidState
		}
		res, err := tx.Exec(db.Q(`UPDATE driver_bids SET amount = ?, message = ?, updated_at = datetime('now','localtime')
			WHERE id = ? AND status = ?`), amount, message, id, DriverBidPending)
		if err != nil {
			return fmt.Errorf("update driver bid: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrConflict
		}
		return nil
	})
}

// WithdrawDriverBid marks a pending bid withdrawn. A bid that exists but
// is no longer pending reports an invalid state rather than a conflict
// so the caller can tell the difference.
func (db *DB) WithdrawDriverBid(id int64) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM driver_bids WHERE id = ?`), id).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status != DriverBidPending {
			return ErrInvalidState
		}
		res, err := tx.Exec(db.Q(`UPDATE driver_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE id = ? AND status = ?`), DriverBidWithdrawn, id, DriverBidPending)
		if err != nil {
			return fmt.Errorf("withdraw driver bid: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrConflict
		}
		return nil
	})
}

// DeleteDriverBid removes a bid outright. The accepted bid on an
// assigned freight bid cannot be deleted; the freight bid has to be
// cancelled first.
func (db *DB) DeleteDriverBid(id int64) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM driver_bids WHERE id = ?`), id).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status == DriverBidAccepted {
			return ErrInvalidState
		}
		res, err := tx.Exec(db.Q(`DELETE FROM driver_bids WHERE id = ? AND status = ?`), id, status)
		if err != nil {
			return fmt.Errorf("delete driver bid: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrConflict
		}
		return nil
	})
}

// CountDriverBids returns total and pending bid counts for a freight bid.
func (db *DB) CountDriverBids(freightBidID int64) (total, pending int, err error) {
	err = db.QueryRow(db.Q(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM driver_bids WHERE freight_bid_id = ?`), DriverBidPending, freightBidID).Scan(&total, &pending)
	return
}
