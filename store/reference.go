package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Reference tables share one shape: a named lookup row that freight bids
// point at. Each gets the same CRUD surface plus an existence check used
// for foreign key validation before writes.

type TruckType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TruckCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BedType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UseTag struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type HelpOption struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (db *DB) createNamed(table, name, description string) (int64, error) {
	return db.insertID(db.DB, fmt.Sprintf(`INSERT INTO %s (name, description) VALUES (?, ?)`, table), name, description)
}

func (db *DB) updateNamed(table string, id int64, name, description string) error {
	res, err := db.Exec(db.Q(fmt.Sprintf(`UPDATE %s SET name = ?, description = ? WHERE id = ?`, table)), name, description, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) deleteNamed(table string, id int64) error {
	res, err := db.Exec(db.Q(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) namedExists(table string, id int64) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, table)), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListIDs returns every id in a table, used to prime the existence cache.
func (db *DB) ListIDs(table string) ([]int64, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT id FROM %s`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) listNamed(table string) (*sql.Rows, error) {
	return db.Query(fmt.Sprintf(`SELECT id, name, description, created_at FROM %s ORDER BY name`, table))
}

func (db *DB) CreateTruckType(name, description string) (int64, error) {
	return db.createNamed("truck_types", name, description)
}

func (db *DB) UpdateTruckType(id int64, name, description string) error {
	return db.updateNamed("truck_types", id, name, description)
}

func (db *DB) DeleteTruckType(id int64) error { return db.deleteNamed("truck_types", id) }

func (db *DB) TruckTypeExists(id int64) (bool, error) { return db.namedExists("truck_types", id) }

func (db *DB) ListTruckTypes() ([]TruckType, error) {
	rows, err := db.listNamed("truck_types")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TruckType
	for rows.Next() {
		var t TruckType
		var created any
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) CreateTruckCategory(name, description string) (int64, error) {
	return db.createNamed("truck_categories", name, description)
}

func (db *DB) UpdateTruckCategory(id int64, name, description string) error {
	return db.updateNamed("truck_categories", id, name, description)
}

func (db *DB) DeleteTruckCategory(id int64) error { return db.deleteNamed("truck_categories", id) }

func (db *DB) TruckCategoryExists(id int64) (bool, error) {
	return db.namedExists("truck_categories", id)
}

func (db *DB) ListTruckCategories() ([]TruckCategory, error) {
	rows, err := db.listNamed("truck_categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TruckCategory
	for rows.Next() {
		var t TruckCategory
		var created any
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) CreateBedType(name, description string) (int64, error) {
	return db.createNamed("bed_types", name, description)
}

func (db *DB) UpdateBedType(id int64, name, description string) error {
	return db.updateNamed("bed_types", id, name, description)
}

func (db *DB) DeleteBedType(id int64) error { return db.deleteNamed("bed_types", id) }

func (db *DB) BedTypeExists(id int64) (bool, error) { return db.namedExists("bed_types", id) }

func (db *DB) ListBedTypes() ([]BedType, error) {
	rows, err := db.listNamed("bed_types")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BedType
	for rows.Next() {
		var t BedType
		var created any
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) CreateUseTag(name, description string) (int64, error) {
	return db.createNamed("use_tags", name, description)
}

func (db *DB) UpdateUseTag(id int64, name, description string) error {
	return db.updateNamed("use_tags", id, name, description)
}

func (db *DB) DeleteUseTag(id int64) error { return db.deleteNamed("use_tags", id) }

func (db *DB) UseTagExists(id int64) (bool, error) { return db.namedExists("use_tags", id) }

func (db *DB) ListUseTags() ([]UseTag, error) {
	rows, err := db.listNamed("use_tags")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UseTag
	for rows.Next() {
		var t UseTag
		var created any
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) CreateHelpOption(name, description string) (int64, error) {
	return db.createNamed("help_options", name, description)
}

func (db *DB) UpdateHelpOption(id int64, name, description string) error {
	return db.updateNamed("help_options", id, name, description)
}

func (db *DB) DeleteHelpOption(id int64) error { return db.deleteNamed("help_options", id) }

func (db *DB) HelpOptionExists(id int64) (bool, error) { return db.namedExists("help_options", id) }

func (db *DB) ListHelpOptions() ([]HelpOption, error) {
	rows, err := db.listNamed("help_options")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []HelpOption
	for rows.Next() {
		var t HelpOption
		var created any
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// SeedReferenceData loads a default lookup set when the truck_types table
// is empty. Safe to call on every startup.
func (db *DB) SeedReferenceData() error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM truck_types`).Scan(&count); err != nil {
		return fmt.Errorf("count truck_types: %w", err)
	}
	if count > 0 {
		return nil
	}
	seed := map[string][]string{
		"truck_types":      {"Pickup", "Box Truck", "Flatbed", "Refrigerated", "Semi-Trailer"},
		"truck_categories": {"Light Duty", "Medium Duty", "Heavy Duty"},
		"bed_types":        {"Open", "Enclosed", "Lowboy", "Drop Deck"},
		"use_tags":         {"Furniture", "Construction", "Agriculture", "Machinery", "General"},
		"help_options":     {"Loading", "Unloading", "Packing", "Lift Gate"},
	}
	for table, names := range seed {
		for _, name := range names {
			if _, err := db.Exec(db.Q(fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, table)), name); err != nil {
				return fmt.Errorf("seed %s: %w", table, err)
			}
		}
	}
	return nil
}
