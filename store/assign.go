package store

import (
	"database/sql"
	"fmt"
)

// AssignResult reports what the assignment transaction decided.
type AssignResult struct {
	FreightBidID int64
	DriverBidID  int64
	DriverID     int64
	TruckID      int64
	RejectedBids int64
}

// assignFaultHook, when non-nil, runs inside the assignment transaction
// after the sibling rejections. Tests set it to force a rollback with
// partial effects already applied.
var assignFaultHook func() error

// AssignDriver atomically accepts one driver bid on an open freight bid,
// rejects every other pending bid, and moves the freight bid to assigned
// with the winning driver and truck recorded. The whole sequence runs in
// one transaction with compare-and-set guards on both status columns, so
// two concurrent assignments on the same bid cannot both win: the loser
// sees zero affected rows and gets ErrConflict.
func (db *DB) AssignDriver(freightBidID, driverBidID int64) (*AssignResult, error) {
	var result AssignResult
	err := db.inTx(func(tx *sql.Tx) error {
		var dbBidFreightID, driverID, truckID int64
		var dbBidStatus string
		err := tx.QueryRow(db.Q(`SELECT freight_bid_id, driver_id, truck_id, status FROM driver_bids WHERE id = ?`), driverBidID).
			Scan(&dbBidFreightID, &driverID, &truckID, &dbBidStatus)
		if err != nil {
			return notFound(err)
		}
		if dbBidFreightID != freightBidID {
			return ErrNotFound
		}

		var fbStatus string
		err = tx.QueryRow(db.Q(`SELECT status FROM freight_bids WHERE id = ?`), freightBidID).Scan(&fbStatus)
		if err != nil {
			return notFound(err)
		}
		if fbStatus != BidStatusOpen {
			return ErrInvalidState
		}
		if dbBidStatus != DriverBidPending {
			return ErrInvalidState
		}

		res, err := tx.Exec(db.Q(`UPDATE freight_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE id = ? AND status = ?`), BidStatusAccepted, freightBidID, BidStatusOpen)
		if err != nil {
			return fmt.Errorf("accept freight bid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}

		res, err = tx.Exec(db.Q(`UPDATE driver_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE id = ? AND status = ?`), DriverBidAccepted, driverBidID, DriverBidPending)
		if err != nil {
			return fmt.Errorf("accept driver bid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}

		res, err = tx.Exec(db.Q(`UPDATE driver_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE freight_bid_id = ? AND status = ? AND id <> ?`), DriverBidRejected, freightBidID, DriverBidPending, driverBidID)
		if err != nil {
			return fmt.Errorf("reject losing bids: %w", err)
		}
		rejected, _ := res.RowsAffected()

		if assignFaultHook != nil {
			if err := assignFaultHook(); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(db.Q(`UPDATE freight_bids SET status = ?, assigned_driver_id = ?, assigned_truck_id = ?,
			updated_at = datetime('now','localtime') WHERE id = ?`),
			BidStatusAssigned, driverID, truckID, freightBidID); err != nil {
			return fmt.Errorf("assign freight bid: %w", err)
		}

		for _, status := range []string{BidStatusAccepted, BidStatusAssigned} {
			if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_history (freight_bid_id, status, detail) VALUES (?, ?, ?)`),
				freightBidID, status, fmt.Sprintf("driver bid %d", driverBidID)); err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
		}

		result = AssignResult{
			FreightBidID: freightBidID,
			DriverBidID:  driverBidID,
			DriverID:     driverID,
			TruckID:      truckID,
			RejectedBids: rejected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TransitionFreightBid moves a bid from one exact status to another with
// a compare-and-set update plus a history row. A bid sitting in any other
// status reports ErrInvalidState; a bid that changed between the read and
// the write reports ErrConflict.
func (db *DB) TransitionFreightBid(id int64, from, to, detail string) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM freight_bids WHERE id = ?`), id).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status != from {
			return ErrInvalidState
		}
		set := `status = ?, updated_at = datetime('now','localtime')`
		if to == BidStatusCompleted {
			set += `, completed_at = datetime('now','localtime')`
		}
		res, err := tx.Exec(db.Q(`UPDATE freight_bids SET `+set+` WHERE id = ? AND status = ?`), to, id, from)
		if err != nil {
			return fmt.Errorf("transition freight bid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}
		if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_history (freight_bid_id, status, detail) VALUES (?, ?, ?)`),
			id, to, detail); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
}

// CancelFreightBid cancels a bid in any non-terminal status and withdraws
// its open driver bids.
func (db *DB) CancelFreightBid(id int64, detail string) error {
	return db.inTx(func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRow(db.Q(`SELECT status FROM freight_bids WHERE id = ?`), id).Scan(&status)
		if err != nil {
			return notFound(err)
		}
		if status == BidStatusCompleted || status == BidStatusCancelled {
			return ErrInvalidState
		}
		res, err := tx.Exec(db.Q(`UPDATE freight_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE id = ? AND status = ?`), BidStatusCancelled, id, status)
		if err != nil {
			return fmt.Errorf("cancel freight bid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}
		if _, err := tx.Exec(db.Q(`UPDATE driver_bids SET status = ?, updated_at = datetime('now','localtime')
			WHERE freight_bid_id = ? AND status IN (?, ?)`),
			DriverBidWithdrawn, id, DriverBidPending, DriverBidAccepted); err != nil {
			return fmt.Errorf("withdraw driver bids: %w", err)
		}
		if _, err := tx.Exec(db.Q(`INSERT INTO freight_bid_history (freight_bid_id, status, detail) VALUES (?, ?, ?)`),
			id, BidStatusCancelled, detail); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		return nil
	})
}

// DeleteFreightBid removes a bid and everything hanging off it. The child
// rows go first so the foreign keys stay satisfied throughout.
func (db *DB) DeleteFreightBid(id int64) error {
	return db.inTx(func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM driver_bids WHERE freight_bid_id = ?`,
			`DELETE FROM freight_bid_use_tags WHERE freight_bid_id = ?`,
			`DELETE FROM freight_bid_help_options WHERE freight_bid_id = ?`,
			`DELETE FROM freight_bid_history WHERE freight_bid_id = ?`,
		} {
			if _, err := tx.Exec(db.Q(q), id); err != nil {
				return fmt.Errorf("delete freight bid children: %w", err)
			}
		}
		res, err := tx.Exec(db.Q(`DELETE FROM freight_bids WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete freight bid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
