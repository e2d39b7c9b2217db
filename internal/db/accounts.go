package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Customer is one tenant. Reference range overrides are scoped to the
// customer, not the account.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is one scored entity belonging to a customer.
type Account struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCustomer inserts a customer and returns its id.
func (db *DB) CreateCustomer(name string) (int64, error) {
	res, err := db.Exec(`INSERT INTO customers (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}
	return res.LastInsertId()
}

// CreateAccount inserts an account under a customer and returns its id.
func (db *DB) CreateAccount(customerID int64, name string) (int64, error) {
	res, err := db.Exec(`INSERT INTO accounts (customer_id, name) VALUES (?, ?)`, customerID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return res.LastInsertId()
}

// GetAccount retrieves an account by id. Returns ErrNotFound when it does
// not exist.
func (db *DB) GetAccount(id int64) (*Account, error) {
	var a Account
	err := db.QueryRow(`
		SELECT id, customer_id, name, created_at
		FROM accounts WHERE id = ?
	`, id).Scan(&a.ID, &a.CustomerID, &a.Name, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return &a, nil
}
