package store

import (
	"errors"

	"github.com/gabriel-327/WarrantyWarden/internal/models"
)

// Sentinel errors returned by every store implementation. Handlers map these
// to HTTP status codes with errors.Is.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ListingStore owns every listing record. Insert fills in the assigned ID and
// timestamps on the passed listing.
type ListingStore interface {
	Insert(listing *models.Listing) error
	// GetAll returns every listing, newest first (created_at DESC).
	GetAll() ([]models.Listing, error)
	GetByID(id int64) (*models.Listing, error)
	// Delete removes one listing and detaches its children (their parent
	// reference is cleared, they are not deleted). Returns the record as it
	// existed before deletion, or ErrNotFound.
	Delete(id int64) (*models.Listing, error)
}

// UserStore owns every credential record. Users are created once and never
// mutated or deleted.
type UserStore interface {
	// Insert persists a new user, returning ErrConflict when the UFID is taken.
	Insert(user *models.User) error
	GetByUFID(ufid string) (*models.User, error)
}
