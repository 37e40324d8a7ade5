package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-327/WarrantyWarden/internal/models"
)

// MySQLListingStore implements ListingStore on the shared connection pool.
type MySQLListingStore struct {
	DB *sql.DB
}

func NewMySQLListingStore(db *sql.DB) *MySQLListingStore {
	return &MySQLListingStore{DB: db}
}

// listingColumns is the scan order shared by every SELECT below.
const listingColumns = `id, name, description, manufacturer, purchase_date,
	expires_at, attachment_url, item_image_url, parent_id, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.Manufacturer,
		&l.PurchaseDate,
		&l.ExpiresAt,
		&l.AttachmentURL,
		&l.ItemImageURL,
		&l.ParentID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Insert saves a new listing and fills in its assigned ID and timestamps.
func (s *MySQLListingStore) Insert(listing *models.Listing) error {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.PurchaseDate.IsZero() {
		listing.PurchaseDate = now
	}

	query := `
		INSERT INTO listings
		(name, description, manufacturer, purchase_date, expires_at,
		 attachment_url, item_image_url, parent_id, created_at, updated_at)
		VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		listing.Name,
		listing.Description,
		listing.Manufacturer,
		listing.PurchaseDate,
		listing.ExpiresAt,
		listing.AttachmentURL,
		listing.ItemImageURL,
		listing.ParentID,
		listing.CreatedAt,
		listing.UpdatedAt,
	}

	result, err := s.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert listing: read id: %w", err)
	}
	listing.ID = id
	return nil
}

// GetAll returns every listing, most recently created first.
func (s *MySQLListingStore) GetAll() ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func (s *MySQLListingStore) GetByID(id int64) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ?`

	listing, err := scanListing(s.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query listing %d: %w", id, err)
	}
	return listing, nil
}

// Delete removes one listing by exact id and returns the pre-delete record.
// Children of the deleted listing are detached, not removed; the two
// statements are deliberately independent (per-row atomicity only).
func (s *MySQLListingStore) Delete(id int64) (*models.Listing, error) {
	listing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.DB.Exec(`UPDATE listings SET parent_id = NULL, updated_at = ? WHERE parent_id = ?`, time.Now(), id); err != nil {
		return nil, fmt.Errorf("detach children of listing %d: %w", id, err)
	}

	if _, err := s.DB.Exec(`DELETE FROM listings WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete listing %d: %w", id, err)
	}
	return listing, nil
}
