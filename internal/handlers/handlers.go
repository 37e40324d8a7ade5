package handlers

import (
	"github.com/gabriel-327/WarrantyWarden/internal/store"
	"github.com/gabriel-327/WarrantyWarden/internal/uploads"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Listings store.ListingStore
	Users    store.UserStore
	Uploads  *uploads.Saver
}
