package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-327/WarrantyWarden/internal/models"
	"github.com/go-sql-driver/mysql"
)

// MySQLUserStore implements UserStore on the shared connection pool.
type MySQLUserStore struct {
	DB *sql.DB
}

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{DB: db}
}

// mysqlDuplicateEntry is the server error number for a UNIQUE violation.
const mysqlDuplicateEntry = 1062

// Insert saves a new user. The UNIQUE index on ufid is the source of truth
// for duplicates; a violation comes back as ErrConflict.
func (s *MySQLUserStore) Insert(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users
		(ufid, password_hash, created_at, updated_at)
		VALUES
		(?, ?, ?, ?)`

	result, err := s.DB.Exec(query, user.UFID, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: read id: %w", err)
	}
	user.ID = id
	return nil
}

func (s *MySQLUserStore) GetByUFID(ufid string) (*models.User, error) {
	query := `SELECT id, ufid, password_hash, created_at, updated_at FROM users WHERE ufid = ?`

	var user models.User
	err := s.DB.QueryRow(query, ufid).Scan(
		&user.ID,
		&user.UFID,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user %q: %w", ufid, err)
	}
	return &user, nil
}
