package models

import (
	"time"
)

// WarrantyStatus is the derived lifecycle label for a listing. It is computed
// from 'expires_at' on every read and never stored.
type WarrantyStatus string

const (
	StatusActive   WarrantyStatus = "active"
	StatusExpiring WarrantyStatus = "expiring"
	StatusExpired  WarrantyStatus = "expired"
)

// ExpiringWindow is how close to its expiry date a warranty can be before we
// start flagging it as "expiring".
const ExpiringWindow = 30 * 24 * time.Hour

// Listing is the model for the 'listings' table.
// Optional columns use pointers for clean JSON serialization.
type Listing struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	Manufacturer string `json:"manufacturer" db:"manufacturer"`

	// PurchaseDate defaults to the creation time when the client omits it.
	PurchaseDate time.Time  `json:"purchaseDate" db:"purchase_date"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty" db:"expires_at"`

	// --- Uploaded file references (/uploads/<name>) ---
	AttachmentURL *string `json:"attachmentUrl,omitempty" db:"attachment_url"`
	ItemImageURL  *string `json:"itemImageUrl,omitempty" db:"item_image_url"`

	// ParentID groups this listing under another (top-level) listing.
	ParentID *int64 `json:"parent,omitempty" db:"parent_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Derived on read, not a column.
	Status WarrantyStatus `json:"status,omitempty" db:"-"`
}

// ClassifyWarranty maps an expiry date and a reference time to exactly one
// WarrantyStatus. A nil expiry is always active. Both window boundaries are
// inclusive: a warranty expiring right now, or in exactly 30 days, counts
// as expiring.
func ClassifyWarranty(expiresAt *time.Time, now time.Time) WarrantyStatus {
	if expiresAt == nil {
		return StatusActive
	}
	remaining := expiresAt.Sub(now)
	switch {
	case remaining < 0:
		return StatusExpired
	case remaining <= ExpiringWindow:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// WithStatus returns a copy of the listing with Status filled in against 'now'.
func (l Listing) WithStatus(now time.Time) Listing {
	l.Status = ClassifyWarranty(l.ExpiresAt, now)
	return l
}
