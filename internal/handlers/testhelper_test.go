package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gabriel-327/WarrantyWarden/internal/auth"
	"github.com/gabriel-327/WarrantyWarden/internal/handlers"
	"github.com/gabriel-327/WarrantyWarden/internal/models"
	"github.com/gabriel-327/WarrantyWarden/internal/routes"
	"github.com/gabriel-327/WarrantyWarden/internal/store"
	"github.com/gabriel-327/WarrantyWarden/internal/uploads"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// --- Mock stores ---

// mockListingStore is an in-memory ListingStore. It records every id passed
// to GetByID/Delete so tests can prove malformed ids never reach the store.
type mockListingStore struct {
	listings  []models.Listing
	nextID    int64
	insertErr error
	getAllErr error
	idCalls   []int64
}

func (m *mockListingStore) Insert(l *models.Listing) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	l.ID = m.nextID
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.PurchaseDate.IsZero() {
		l.PurchaseDate = now
	}
	m.listings = append(m.listings, *l)
	return nil
}

// GetAll returns newest-first, matching the real store's created_at DESC.
func (m *mockListingStore) GetAll() ([]models.Listing, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]models.Listing, 0, len(m.listings))
	for i := len(m.listings) - 1; i >= 0; i-- {
		out = append(out, m.listings[i])
	}
	return out, nil
}

func (m *mockListingStore) GetByID(id int64) (*models.Listing, error) {
	m.idCalls = append(m.idCalls, id)
	for _, l := range m.listings {
		if l.ID == id {
			copied := l
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockListingStore) Delete(id int64) (*models.Listing, error) {
	m.idCalls = append(m.idCalls, id)
	for i, l := range m.listings {
		if l.ID == id {
			deleted := l
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			for j := range m.listings {
				if m.listings[j].ParentID != nil && *m.listings[j].ParentID == id {
					m.listings[j].ParentID = nil
				}
			}
			return &deleted, nil
		}
	}
	return nil, store.ErrNotFound
}

// mockUserStore is an in-memory UserStore.
type mockUserStore struct {
	users     []models.User
	nextID    int64
	insertErr error
}

func (m *mockUserStore) Insert(u *models.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, existing := range m.users {
		if existing.UFID == u.UFID {
			return store.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users = append(m.users, *u)
	return nil
}

func (m *mockUserStore) GetByUFID(ufid string) (*models.User, error) {
	for _, u := range m.users {
		if u.UFID == ufid {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

// --- Router / request helpers ---

type testApp struct {
	router   *gin.Engine
	listings *mockListingStore
	users    *mockUserStore
	token    string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	listings := &mockListingStore{}
	users := &mockUserStore{}
	saver, err := uploads.NewSaver(t.TempDir())
	require.NoError(t, err)

	h := &handlers.Handlers{
		Listings: listings,
		Users:    users,
		Uploads:  saver,
	}

	token, err := auth.GenerateToken(1)
	require.NoError(t, err)

	return &testApp{
		router:   routes.SetupRouter(h, saver.Dir),
		listings: listings,
		users:    users,
		token:    token,
	}
}

// do performs an authenticated request and returns the recorder.
func (a *testApp) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// doJSON performs an unauthenticated JSON request (auth endpoints).
func (a *testApp) doJSON(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type formFile struct {
	field, name, contentType string
	content                  []byte
}

// multipartBody builds a multipart form from text fields and optional files.
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// createListing posts a minimal valid multipart form plus any extra fields.
func (a *testApp) createListing(t *testing.T, name string, extra map[string]string) models.Listing {
	t.Helper()
	fields := map[string]string{
		"name":         name,
		"description":  "SN-" + name,
		"manufacturer": "Acme",
	}
	for k, v := range extra {
		fields[k] = v
	}
	body, contentType := multipartBody(t, fields)
	rec := a.do(t, http.MethodPost, "/api/listings", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeJSON[models.Listing](t, rec)
}
