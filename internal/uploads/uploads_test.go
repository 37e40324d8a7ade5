package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFile builds a real *multipart.FileHeader the same way the HTTP
// layer would hand one to the saver.
func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestStoredNameReplacesWhitespace(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "1700000000000_my_receipt_scan.pdf", StoredName("my receipt scan.pdf", at))
	assert.Equal(t, "1700000000000_tabs_and_spaces.png", StoredName("tabs\tand  spaces.png", at))
	assert.Equal(t, "1700000000000_plain.jpg", StoredName("plain.jpg", at))
}

func TestStoredNameStripsDirectories(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	assert.Equal(t, "1700000000000_receipt.pdf", StoredName("../../etc/receipt.pdf", at))
}

func TestAcceptStoresImage(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "photo of item.png", "image/png", []byte("png-bytes"))
	url, err := saver.Accept(fh, RoleItemImage)
	require.NoError(t, err)

	assert.Regexp(t, `^/uploads/\d+_photo_of_item\.png$`, url)

	stored, err := os.ReadFile(filepath.Join(saver.Dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestAcceptAllowsPDFReceipts(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "receipt.pdf", "application/pdf", []byte("%PDF-1.4"))
	url, err := saver.Accept(fh, RoleReceipt)
	require.NoError(t, err)
	assert.Contains(t, url, "receipt.pdf")
}

func TestAcceptRejectsPDFItemPhotos(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "receipt.pdf", "application/pdf", []byte("%PDF-1.4"))
	_, err = saver.Accept(fh, RoleItemImage)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAcceptRejectsOtherTypes(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fh := multipartFile(t, "notes.txt", "text/plain", []byte("hello"))
	_, err = saver.Accept(fh, RoleReceipt)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAcceptRejectsOversizeFiles(t *testing.T) {
	saver, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	// Size is checked before the content is ever opened, so a synthetic
	// header is enough here.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "image/png")
	fh := &multipart.FileHeader{
		Filename: "huge.png",
		Header:   header,
		Size:     MaxFileSize + 1,
	}

	_, err = saver.Accept(fh, RoleItemImage)
	assert.ErrorIs(t, err, ErrTooLarge)
}
