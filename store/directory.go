package store

import (
	"database/sql"
	"errors"
	"time"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type Driver struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type Truck struct {
	ID          int64     `json:"id"`
	DriverID    int64     `json:"driverId"`
	PlateNumber string    `json:"plateNumber"`
	TruckTypeID *int64    `json:"truckTypeId"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentAccount struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	Label      string    `json:"label"`
	Method     string    `json:"method"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (db *DB) CreateCustomer(name, phone string) (int64, error) {
	return db.insertID(db.DB, `INSERT INTO customers (name, phone) VALUES (?, ?)`, name, phone)
}

func (db *DB) GetCustomer(id int64) (*Customer, error) {
	var c Customer
	var created any
	err := db.QueryRow(db.Q(`SELECT id, name, phone, created_at FROM customers WHERE id = ?`), id).
		Scan(&c.ID, &c.Name, &c.Phone, &created)
	if err != nil {
		return nil, notFound(err)
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}

func (db *DB) CustomerExists(id int64) (bool, error) { return db.namedExists("customers", id) }

func (db *DB) ListCustomers() ([]Customer, error) {
	rows, err := db.Query(`SELECT id, name, phone, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		var c Customer
		var created any
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) CreateDriver(name, phone string, rating float64) (int64, error) {
	return db.insertID(db.DB, `INSERT INTO drivers (name, phone, rating) VALUES (?, ?, ?)`, name, phone, rating)
}

func (db *DB) GetDriver(id int64) (*Driver, error) {
	var d Driver
	var created any
	err := db.QueryRow(db.Q(`SELECT id, name, phone, rating, created_at FROM drivers WHERE id = ?`), id).
		Scan(&d.ID, &d.Name, &d.Phone, &d.Rating, &created)
	if err != nil {
		return nil, notFound(err)
	}
	d.CreatedAt = parseTime(created)
	return &d, nil
}

func (db *DB) DriverExists(id int64) (bool, error) { return db.namedExists("drivers", id) }

func (db *DB) ListDrivers() ([]Driver, error) {
	rows, err := db.Query(`SELECT id, name, phone, rating, created_at FROM drivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Driver
	for rows.Next() {
		var d Driver
		var created any
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Rating, &created); err != nil {
			return nil, err
		}
		d.CreatedAt = parseTime(created)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (db *DB) CreateTruck(driverID int64, plateNumber string, truckTypeID *int64, make, model string) (int64, error) {
	return db.insertID(db.DB,
		`INSERT INTO trucks (driver_id, plate_number, truck_type_id, make, model) VALUES (?, ?, ?, ?, ?)`,
		driverID, plateNumber, truckTypeID, make, model)
}

func (db *DB) GetTruck(id int64) (*Truck, error) {
	var t Truck
	var created any
	err := db.QueryRow(db.Q(`SELECT id, driver_id, plate_number, truck_type_id, make, model, created_at FROM trucks WHERE id = ?`), id).
		Scan(&t.ID, &t.DriverID, &t.PlateNumber, &t.TruckTypeID, &t.Make, &t.Model, &created)
	if err != nil {
		return nil, notFound(err)
	}
	t.CreatedAt = parseTime(created)
	return &t, nil
}

func (db *DB) TruckExists(id int64) (bool, error) { return db.namedExists("trucks", id) }

// TruckBelongsToDriver reports whether the truck is registered to the driver.
func (db *DB) TruckBelongsToDriver(truckID, driverID int64) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM trucks WHERE id = ? AND driver_id = ?`), truckID, driverID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) ListTrucksByDriver(driverID int64) ([]Truck, error) {
	rows, err := db.Query(db.Q(`SELECT id, driver_id, plate_number, truck_type_id, make, model, created_at FROM trucks WHERE driver_id = ? ORDER BY id`), driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Truck
	for rows.Next() {
		var t Truck
		var created any
		if err := rows.Scan(&t.ID, &t.DriverID, &t.PlateNumber, &t.TruckTypeID, &t.Make, &t.Model, &created); err != nil {
			return nil, err
		}
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (db *DB) CreatePaymentAccount(customerID int64, label, method string) (int64, error) {
	return db.insertID(db.DB,
		`INSERT INTO payment_accounts (customer_id, label, method) VALUES (?, ?, ?)`,
		customerID, label, method)
}

func (db *DB) PaymentAccountExists(id int64) (bool, error) {
	return db.namedExists("payment_accounts", id)
}

// PaymentAccountBelongsToCustomer guards against one customer paying with
// another customer's account.
func (db *DB) PaymentAccountBelongsToCustomer(accountID, customerID int64) (bool, error) {
	var one int
	err := db.QueryRow(db.Q(`SELECT 1 FROM payment_accounts WHERE id = ? AND customer_id = ?`), accountID, customerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) ListPaymentAccountsByCustomer(customerID int64) ([]PaymentAccount, error) {
	rows, err := db.Query(db.Q(`SELECT id, customer_id, label, method, created_at FROM payment_accounts WHERE customer_id = ? ORDER BY id`), customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PaymentAccount
	for rows.Next() {
		var p PaymentAccount
		var created any
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Label, &p.Method, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(created)
		out = append(out, p)
	}
	return out, rows.Err()
}
