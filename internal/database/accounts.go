package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mehan05/venue-backend-new/internal/models"
)

// accountTable maps a role to its table. The two tables are intentionally
// separate so the same email can register once per role.
func accountTable(role string) (string, error) {
	switch role {
	case models.RoleFaculty:
		return "faculties", nil
	case models.RoleAdmin:
		return "admins", nil
	default:
		return "", ErrInvalidRole
	}
}

// CreateAccount inserts a new principal into the table matching its role.
// All fields are stored verbatim; a duplicate email in the same table
// surfaces as the driver's unique-constraint error.
func (db *DB) CreateAccount(ctx context.Context, account *models.Account) error {
	table, err := accountTable(account.Role)
	if err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()

	query := fmt.Sprintf(`INSERT INTO %s (id, username, email, password, role, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`, table)
	_, err = db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.Password,
		account.Role,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	account.CreatedAt = now
	return nil
}

// Authenticate looks up exactly one account in the role's table whose email
// and password both equal the supplied values. Passwords are compared as
// stored, without hashing.
func (db *DB) Authenticate(ctx context.Context, email, password, role string) (*models.Account, error) {
	table, err := accountTable(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, username, email, password, role, created_at
              FROM %s WHERE email = ? AND password = ? LIMIT 1`, table)

	account, err := db.queryAccount(ctx, query, email, password)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return account, nil
}

// GetAccountByEmail returns the account registered under email in the
// role's table.
func (db *DB) GetAccountByEmail(ctx context.Context, email, role string) (*models.Account, error) {
	table, err := accountTable(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, username, email, password, role, created_at
              FROM %s WHERE email = ?`, table)
	return db.queryAccount(ctx, query, email)
}

func (db *DB) queryAccount(ctx context.Context, query string, args ...interface{}) (*models.Account, error) {
	var account models.Account
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID, &account.Username, &account.Email, &account.Password, &account.Role, &account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns every account in the role's table, newest first.
func (db *DB) ListAccounts(ctx context.Context, role string) ([]*models.Account, error) {
	table, err := accountTable(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, username, email, password, role, created_at
              FROM %s ORDER BY created_at DESC`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a := &models.Account{}
		err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.Role, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}
