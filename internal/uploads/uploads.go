// Package uploads validates and stores user-submitted files (receipts and
// item photos) under a flat on-disk directory, returning the /uploads/<name>
// reference persisted on the listing.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxFileSize is the per-file upload cap (10 MiB).
const MaxFileSize = 10 << 20

// URLPrefix is where stored files are served from.
const URLPrefix = "/uploads"

// Role distinguishes the two upload slots on a listing; receipts may also be
// PDFs, item photos must be images.
type Role string

const (
	RoleReceipt   Role = "attachment"
	RoleItemImage Role = "itemImage"
)

var (
	ErrTooLarge        = errors.New("file exceeds the 10MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var whitespace = regexp.MustCompile(`\s+`)

// Saver writes accepted uploads into a single flat directory.
type Saver struct {
	Dir string
}

// NewSaver ensures the upload directory exists and returns a Saver for it.
func NewSaver(dir string) (*Saver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{Dir: dir}, nil
}

// Accept enforces the size and type policy for the given role, stores the
// file, and returns its /uploads/<name> reference. The stored name is the
// current time in milliseconds plus the original filename with whitespace
// collapsed to underscores.
func (s *Saver) Accept(file *multipart.FileHeader, role Role) (string, error) {
	if file.Size > MaxFileSize {
		return "", ErrTooLarge
	}

	if !allowedType(file.Header.Get("Content-Type"), role) {
		return "", ErrUnsupportedType
	}

	name := StoredName(file.Filename, time.Now())

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	return URLPrefix + "/" + name, nil
}

// StoredName derives the on-disk filename for an upload received at t.
func StoredName(original string, t time.Time) string {
	safe := whitespace.ReplaceAllString(filepath.Base(original), "_")
	return fmt.Sprintf("%d_%s", t.UnixMilli(), safe)
}

func allowedType(mimeType string, role Role) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	// Only the receipt slot takes PDFs.
	return role == RoleReceipt && mimeType == "application/pdf"
}
