// Package view holds the presentation-side listing logic: free-text search,
// multi-key sorting, one-level grouping, and the session-local reported set.
// Everything operates on in-memory slices fetched from the store; nothing
// here touches persistence.
package view

import (
	"sort"
	"strings"

	"github.com/gabriel-327/WarrantyWarden/internal/models"
)

// SortKey selects which field to order listings by.
type SortKey string

const (
	SortNone         SortKey = ""
	SortName         SortKey = "name"
	SortManufacturer SortKey = "manufacturer"
	SortExpiresAt    SortKey = "expiresAt"
)

// SortDir is the sort direction.
type SortDir string

const (
	Ascending  SortDir = "asc"
	Descending SortDir = "desc"
)

// Filter returns the listings whose name or description contains the search
// term, compared case-insensitively. An empty term matches everything.
func Filter(listings []models.Listing, term string) []models.Listing {
	if term == "" {
		return listings
	}
	needle := strings.ToLower(term)

	var matched []models.Listing
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Name), needle) ||
			strings.Contains(strings.ToLower(l.Description), needle) {
			matched = append(matched, l)
		}
	}
	return matched
}

// SortListings returns a sorted copy of the listings. Name and manufacturer
// compare case-insensitively. The expiry comparator puts listings without an
// expiry date last under both directions: the direction reversal only applies
// between two listings that both have one.
func SortListings(listings []models.Listing, key SortKey, dir SortDir) []models.Listing {
	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)

	if key == SortNone {
		return sorted
	}

	desc := dir == Descending
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch key {
		case SortName:
			return textLess(a.Name, b.Name, desc)
		case SortManufacturer:
			return textLess(a.Manufacturer, b.Manufacturer, desc)
		case SortExpiresAt:
			return expiryLess(a, b, desc)
		default:
			return false
		}
	})
	return sorted
}

func textLess(a, b string, desc bool) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if desc {
		return la > lb
	}
	return la < lb
}

func expiryLess(a, b models.Listing, desc bool) bool {
	// Missing dates sink to the end regardless of direction.
	if a.ExpiresAt == nil {
		return false
	}
	if b.ExpiresAt == nil {
		return true
	}
	if desc {
		return a.ExpiresAt.After(*b.ExpiresAt)
	}
	return a.ExpiresAt.Before(*b.ExpiresAt)
}

// Group is one rendered cluster: a head listing and the children filed under
// it. A standalone listing (top-level with no children, or an orphan whose
// parent is missing from the current set) is a Group with no children.
type Group struct {
	Listing  models.Listing   `json:"listing"`
	Children []models.Listing `json:"children,omitempty"`
}

// GroupListings partitions the sequence into one Group per top-level listing,
// preserving input order for both heads and children. A child whose parent is
// not among the input's top-level listings renders standalone in its own
// position.
func GroupListings(listings []models.Listing) []Group {
	topLevel := make(map[int64]bool, len(listings))
	for _, l := range listings {
		if l.ParentID == nil {
			topLevel[l.ID] = true
		}
	}

	childrenOf := make(map[int64][]models.Listing)
	for _, l := range listings {
		if l.ParentID != nil && topLevel[*l.ParentID] {
			childrenOf[*l.ParentID] = append(childrenOf[*l.ParentID], l)
		}
	}

	var groups []Group
	for _, l := range listings {
		if l.ParentID == nil {
			groups = append(groups, Group{Listing: l, Children: childrenOf[l.ID]})
			continue
		}
		if !topLevel[*l.ParentID] {
			// Orphan: parent filtered out or deleted.
			groups = append(groups, Group{Listing: l})
		}
	}
	return groups
}

// ReportSet tracks which listings the current session has reported. The flag
// is client-session state only; nothing is sent to or stored on the server.
type ReportSet map[int64]struct{}

func NewReportSet() ReportSet {
	return make(ReportSet)
}

func (r ReportSet) Report(id int64) {
	r[id] = struct{}{}
}

func (r ReportSet) Reported(id int64) bool {
	_, ok := r[id]
	return ok
}
