package store

import (
	"time"
)

// Audit entity types for marketplace lifecycle records. Reference and
// directory writes are logged under their table names instead, so the
// admin API can filter either way.
const (
	AuditFreightBid = "freight_bid"
	AuditDriverBid  = "driver_bid"
)

// AuditEntry is one row of the marketplace audit trail: who did what to
// which bid or reference row, with the before and after values when a
// status or name changed.
type AuditEntry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	Action     string    `json:"action"`
	OldValue   string    `json:"oldValue"`
	NewValue   string    `json:"newValue"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"createdAt"`
}

const auditColumns = `id, entity_type, entity_id, action, old_value, new_value, actor, created_at`

// AppendAudit records one action. Audit writes sit outside the domain
// transactions; a failed append must never undo a committed bid change.
func (db *DB) AppendAudit(entityType string, entityID int64, action, oldValue, newValue, actor string) error {
	_, err := db.Exec(db.Q(`INSERT INTO audit_log (entity_type, entity_id, action, old_value, new_value, actor) VALUES (?, ?, ?, ?, ?, ?)`),
		entityType, entityID, action, oldValue, newValue, actor)
	return err
}

// ListAuditLog returns the most recent entries across all entities.
func (db *DB) ListAuditLog(limit int) ([]*AuditEntry, error) {
	return db.queryAudit(`SELECT `+auditColumns+` FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
}

// ListEntityAudit returns the full trail for one freight bid, driver bid,
// or reference row, newest first.
func (db *DB) ListEntityAudit(entityType string, entityID int64) ([]*AuditEntry, error) {
	return db.queryAudit(`SELECT `+auditColumns+` FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY id DESC`, entityType, entityID)
}

func (db *DB) queryAudit(query string, args ...any) ([]*AuditEntry, error) {
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.OldValue, &e.NewValue, &e.Actor, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
