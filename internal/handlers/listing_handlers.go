package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriel-327/WarrantyWarden/internal/models"
	"github.com/gabriel-327/WarrantyWarden/internal/store"
	"github.com/gabriel-327/WarrantyWarden/internal/uploads"
	"github.com/gabriel-327/WarrantyWarden/internal/view"
	"github.com/gin-gonic/gin"
)

// dateLayouts are the accepted formats for 'date' and 'expiresAt' form
// fields: the HTML date input's value, or a full RFC 3339 timestamp.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseListingID validates the :id path parameter before it can reach the
// store. A well-formed id is a positive base-10 integer.
func parseListingID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseDateField(value string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}

// GetAllListings is the handler for GET /api/listings.
// Without query parameters it returns every listing newest-first; the
// optional search/sortKey/sortDir/grouped parameters apply the view logic
// server-side.
func (h *Handlers) GetAllListings(c *gin.Context) {
	// 1. --- Query Store ---
	listings, err := h.Listings.GetAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "getAll failed"})
		return
	}

	// 2. --- Apply View Parameters ---
	listings = view.Filter(listings, c.Query("search"))
	listings = view.SortListings(listings,
		view.SortKey(c.Query("sortKey")),
		view.SortDir(c.Query("sortDir")))

	// 3. --- Derive Warranty Status ---
	now := time.Now()
	for i := range listings {
		listings[i] = listings[i].WithStatus(now)
	}

	// 4. --- Send Success Response ---
	if c.Query("grouped") == "true" {
		groups := view.GroupListings(listings)
		if groups == nil {
			groups = []view.Group{}
		}
		c.JSON(http.StatusOK, groups)
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing is the handler for GET /api/listings/:id.
func (h *Handlers) GetListing(c *gin.Context) {
	id, ok := parseListingID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return
	}

	listing, err := h.Listings.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, listing.WithStatus(time.Now()))
}

// CreateListing is the handler for POST /api/listings (multipart form).
// Any file uploads are stored before the insert; a failed insert does not
// remove an already-stored file.
func (h *Handlers) CreateListing(c *gin.Context) {
	// 1. --- Required Text Fields ---
	name := c.PostForm("name")
	description := c.PostForm("description")
	manufacturer := c.PostForm("manufacturer")
	if manufacturer == "" {
		// Legacy form field name from the original client.
		manufacturer = c.PostForm("cost")
	}
	if name == "" || description == "" || manufacturer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	listing := &models.Listing{
		Name:         name,
		Description:  description,
		Manufacturer: manufacturer,
	}

	// 2. --- Optional Dates ---
	if raw := c.PostForm("date"); raw != "" {
		purchased, err := parseDateField(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		listing.PurchaseDate = *purchased
	}
	if raw := c.PostForm("expiresAt"); raw != "" {
		expires, err := parseDateField(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiresAt"})
			return
		}
		listing.ExpiresAt = expires
	}

	// 3. --- Optional Parent (one level deep only) ---
	if raw := c.PostForm("parent"); raw != "" {
		parentID, ok := parseListingID(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent ID"})
			return
		}
		parent, err := h.Listings.GetByID(parentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent listing not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
			return
		}
		if parent.ParentID != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent listing is itself a child"})
			return
		}
		listing.ParentID = &parentID
	}

	// 4. --- File Uploads ---
	if url, ok := h.saveUpload(c, "attachment", uploads.RoleReceipt); !ok {
		return
	} else if url != "" {
		listing.AttachmentURL = &url
	}
	if url, ok := h.saveUpload(c, "itemImage", uploads.RoleItemImage); !ok {
		return
	} else if url != "" {
		listing.ItemImageURL = &url
	}

	// 5. --- Save to Store ---
	if err := h.Listings.Insert(listing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "create failed"})
		return
	}

	// 6. --- Send Success Response ---
	c.JSON(http.StatusCreated, listing.WithStatus(time.Now()))
}

// saveUpload stores one optional form file and returns its reference.
// A missing file is fine (empty url, ok); a policy violation writes the
// error response and reports !ok.
func (h *Handlers) saveUpload(c *gin.Context, field string, role uploads.Role) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		// No file in this slot; both upload fields are optional.
		return "", true
	}

	url, err := h.Uploads.Accept(file, role)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 10MB limit"})
		case errors.Is(err, uploads.ErrUnsupportedType):
			if role == uploads.RoleReceipt {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Only images or PDFs allowed"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Only images allowed"})
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		}
		return "", false
	}
	return url, true
}

// DeleteListing is the handler for DELETE /api/listings/:id.
// Children of the removed listing are detached and live on as top-level
// listings.
func (h *Handlers) DeleteListing(c *gin.Context) {
	id, ok := parseListingID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return
	}

	listing, err := h.Listings.Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deleteListing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":     "Listing deleted:",
		"listing": listing,
	})
}
