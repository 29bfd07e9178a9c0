package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filesmanager/internal/common"
	"filesmanager/internal/logging"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/services"
)

// Function-field fakes keep each test in control of the provider behavior.

type fakeAuth struct {
	registerFn    func(ctx context.Context, email, password string) (*models.User, error)
	loginFn       func(ctx context.Context, basicPayload string) (string, error)
	logoutFn      func(ctx context.Context, token string) error
	resolveUserFn func(ctx context.Context, token string) (string, error)
	getUserFn     func(ctx context.Context, userID string) (*models.User, error)
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.registerFn(ctx, email, password)
}
func (f *fakeAuth) Login(ctx context.Context, basicPayload string) (string, error) {
	return f.loginFn(ctx, basicPayload)
}
func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	return f.logoutFn(ctx, token)
}
func (f *fakeAuth) ResolveUser(ctx context.Context, token string) (string, error) {
	return f.resolveUserFn(ctx, token)
}
func (f *fakeAuth) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return f.getUserFn(ctx, userID)
}

type fakeFiles struct {
	createFn       func(ctx context.Context, userID string, in services.CreateFileInput) (*models.FileRecord, error)
	getByIDFn      func(ctx context.Context, userID, id string) (*models.FileRecord, error)
	listFn         func(ctx context.Context, userID string, parent *string, page, limit int) ([]*models.FileRecord, error)
	setPublishedFn func(ctx context.Context, userID, id string, published bool) (*models.FileRecord, error)
	getDataFn      func(ctx context.Context, userID, id string) (*models.FileRecord, []byte, error)
}

func (f *fakeFiles) Create(ctx context.Context, userID string, in services.CreateFileInput) (*models.FileRecord, error) {
	return f.createFn(ctx, userID, in)
}
func (f *fakeFiles) GetByID(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	return f.getByIDFn(ctx, userID, id)
}
func (f *fakeFiles) List(ctx context.Context, userID string, parent *string, page, limit int) ([]*models.FileRecord, error) {
	return f.listFn(ctx, userID, parent, page, limit)
}
func (f *fakeFiles) SetPublished(ctx context.Context, userID, id string, published bool) (*models.FileRecord, error) {
	return f.setPublishedFn(ctx, userID, id, published)
}
func (f *fakeFiles) GetData(ctx context.Context, userID, id string) (*models.FileRecord, []byte, error) {
	return f.getDataFn(ctx, userID, id)
}

type fakeStatus struct {
	healthFn func(ctx context.Context) services.Health
	statsFn  func(ctx context.Context) (services.Stats, error)
}

func (f *fakeStatus) Health(ctx context.Context) services.Health { return f.healthFn(ctx) }
func (f *fakeStatus) Stats(ctx context.Context) (services.Stats, error) {
	return f.statsFn(ctx)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// resolveAs returns an auth fake that maps one token to one user id.
func resolveAs(token, userID string) *fakeAuth {
	return &fakeAuth{
		resolveUserFn: func(_ context.Context, got string) (string, error) {
			if got == token {
				return userID, nil
			}
			return "", common.ErrorUnauthorized
		},
	}
}

func newTestServer(auth AuthProvider, files FileProvider, status StatusProvider) *Server {
	return NewServer(":0", testLogger(), auth, files, status)
}

func doRequest(t *testing.T, srv *Server, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHandleRegister(t *testing.T) {
	auth := &fakeAuth{
		registerFn: func(_ context.Context, email, password string) (*models.User, error) {
			switch {
			case email == "":
				return nil, common.ErrorMissingParameter
			case email == "taken@dylan.com":
				return nil, common.ErrorAlreadyExists
			}
			return &models.User{ID: "u-1", Email: email}, nil
		},
	}
	srv := newTestServer(auth, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/users", "",
		`{"email":"bob@dylan.com","password":"toto1234!"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[userResponse](t, rec)
	assert.Equal(t, "u-1", body.ID)
	assert.Equal(t, "bob@dylan.com", body.Email)

	rec = doRequest(t, srv, http.MethodPost, "/users", "",
		`{"email":"taken@dylan.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already exist", decodeBody[errorResponse](t, rec).Error)

	rec = doRequest(t, srv, http.MethodPost, "/users", "", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/users", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConnect(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(_ context.Context, payload string) (string, error) {
			if payload == "Z29vZA==" {
				return "tok-123", nil
			}
			return "", common.ErrorUnauthorized
		},
	}
	srv := newTestServer(auth, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic Z29vZA==")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", decodeBody[map[string]string](t, rec)["token"])

	// Missing Authorization header.
	rec = doRequest(t, srv, http.MethodGet, "/connect", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody[errorResponse](t, rec).Error)

	// Wrong credentials.
	req = httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic d3Jvbmc=")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleDisconnect(t *testing.T) {
	auth := &fakeAuth{
		logoutFn: func(_ context.Context, token string) error {
			if token == "tok-123" {
				return nil
			}
			return common.ErrorUnauthorized
		},
	}
	srv := newTestServer(auth, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/disconnect", "tok-123", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/disconnect", "stale", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMe(t *testing.T) {
	auth := resolveAs("tok-123", "u-1")
	auth.getUserFn = func(_ context.Context, userID string) (*models.User, error) {
		return &models.User{ID: userID, Email: "bob@dylan.com"}, nil
	}
	srv := newTestServer(auth, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/users/me", "tok-123", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[userResponse](t, rec)
	assert.Equal(t, "u-1", body.ID)

	rec = doRequest(t, srv, http.MethodGet, "/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateFile(t *testing.T) {
	var gotInput services.CreateFileInput
	files := &fakeFiles{
		createFn: func(_ context.Context, userID string, in services.CreateFileInput) (*models.FileRecord, error) {
			gotInput = in
			if in.ParentID == "missing-parent" {
				return nil, common.ErrorInvalidParent
			}
			return &models.FileRecord{
				ID: "f-1", UserID: userID, Name: in.Name, Kind: in.Kind,
				ParentID: in.ParentID, IsPublished: in.IsPublished,
			}, nil
		},
	}
	srv := newTestServer(resolveAs("tok-123", "u-1"), files, nil)

	rec := doRequest(t, srv, http.MethodPost, "/files", "tok-123",
		`{"name":"myText.txt","type":"file","data":"SGVsbG8="}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[fileResponse](t, rec)
	assert.Equal(t, "f-1", body.ID)
	assert.Equal(t, "u-1", body.UserID)
	assert.Equal(t, "0", body.ParentID, "root serializes as the 0 sentinel")

	// Numeric parentId 0 means root.
	rec = doRequest(t, srv, http.MethodPost, "/files", "tok-123",
		`{"name":"a.txt","type":"file","parentId":0,"data":"eA=="}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, gotInput.ParentID)

	rec = doRequest(t, srv, http.MethodPost, "/files", "tok-123",
		`{"name":"b.txt","type":"file","parentId":"missing-parent","data":"eA=="}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parent not found", decodeBody[errorResponse](t, rec).Error)

	rec = doRequest(t, srv, http.MethodPost, "/files", "", `{"name":"x","type":"file"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListFiles(t *testing.T) {
	var gotParent *string
	var gotPage, gotLimit int
	files := &fakeFiles{
		listFn: func(_ context.Context, userID string, parent *string, page, limit int) ([]*models.FileRecord, error) {
			gotParent, gotPage, gotLimit = parent, page, limit
			return []*models.FileRecord{
				{ID: "f-1", UserID: userID, Name: "docs", Kind: models.KindFolder},
			}, nil
		},
	}
	srv := newTestServer(resolveAs("tok-123", "u-1"), files, nil)

	rec := doRequest(t, srv, http.MethodGet, "/files", "tok-123", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotParent, "absent parentId lists everything")
	assert.Equal(t, 0, gotPage)
	body := decodeBody[[]fileResponse](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, "0", body[0].ParentID)

	doRequest(t, srv, http.MethodGet, "/files?parentId=0&page=2&limit=5", "tok-123", "")
	require.NotNil(t, gotParent)
	assert.Empty(t, *gotParent, "parentId=0 filters to the root")
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotLimit)

	doRequest(t, srv, http.MethodGet, "/files?parentId=abc&page=bogus", "tok-123", "")
	require.NotNil(t, gotParent)
	assert.Equal(t, "abc", *gotParent)
	assert.Equal(t, 0, gotPage, "unparseable page falls back to the first")

	rec = doRequest(t, srv, http.MethodGet, "/files", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGetFile(t *testing.T) {
	files := &fakeFiles{
		getByIDFn: func(_ context.Context, userID, id string) (*models.FileRecord, error) {
			if id == "pub-1" {
				return &models.FileRecord{ID: id, UserID: "owner", Name: "p.txt",
					Kind: models.KindFile, IsPublished: true}, nil
			}
			return nil, common.ErrorNotFound
		},
	}
	srv := newTestServer(resolveAs("tok-123", "u-1"), files, nil)

	// Published records are visible without a token.
	rec := doRequest(t, srv, http.MethodGet, "/files/pub-1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[fileResponse](t, rec).IsPublished)

	rec = doRequest(t, srv, http.MethodGet, "/files/gone", "tok-123", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody[errorResponse](t, rec).Error)
}

func TestHandlePublishUnpublish(t *testing.T) {
	files := &fakeFiles{
		setPublishedFn: func(_ context.Context, userID, id string, published bool) (*models.FileRecord, error) {
			if id != "f-1" || userID != "u-1" {
				return nil, common.ErrorNotFound
			}
			return &models.FileRecord{ID: id, UserID: userID, Name: "n.txt",
				Kind: models.KindFile, IsPublished: published}, nil
		},
	}
	srv := newTestServer(resolveAs("tok-123", "u-1"), files, nil)

	rec := doRequest(t, srv, http.MethodPut, "/files/f-1/publish", "tok-123", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[fileResponse](t, rec).IsPublished)

	rec = doRequest(t, srv, http.MethodPut, "/files/f-1/unpublish", "tok-123", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[fileResponse](t, rec).IsPublished)

	rec = doRequest(t, srv, http.MethodPut, "/files/other/publish", "tok-123", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/files/f-1/publish", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGetFileData(t *testing.T) {
	files := &fakeFiles{
		getDataFn: func(_ context.Context, userID, id string) (*models.FileRecord, []byte, error) {
			switch id {
			case "txt-1":
				return &models.FileRecord{ID: id, Name: "myText.txt", Kind: models.KindFile},
					[]byte("Hello Webstack!\n"), nil
			case "bin-1":
				return &models.FileRecord{ID: id, Name: "dump", Kind: models.KindFile},
					[]byte{0x01, 0x02}, nil
			case "locked-1":
				return nil, nil, common.ErrorForbidden
			}
			return nil, nil, common.ErrorNotFound
		},
	}
	srv := newTestServer(resolveAs("tok-123", "u-1"), files, nil)

	rec := doRequest(t, srv, http.MethodGet, "/files/txt-1/data", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Hello Webstack!\n", rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/files/bin-1/data", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	rec = doRequest(t, srv, http.MethodGet, "/files/locked-1/data", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody[errorResponse](t, rec).Error)

	rec = doRequest(t, srv, http.MethodGet, "/files/folder-1/data", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatusAndStats(t *testing.T) {
	status := &fakeStatus{
		healthFn: func(context.Context) services.Health {
			return services.Health{DB: true, Cache: true}
		},
		statsFn: func(context.Context) (services.Stats, error) {
			return services.Stats{Users: 12, Files: 1231}, nil
		},
	}
	srv := newTestServer(nil, nil, status)

	rec := doRequest(t, srv, http.MethodGet, "/status", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[statusResponse](t, rec)
	assert.True(t, health.DB)
	assert.True(t, health.Cache)

	rec = doRequest(t, srv, http.MethodGet, "/stats", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[statsResponse](t, rec)
	assert.Equal(t, int64(12), stats.Users)
	assert.Equal(t, int64(1231), stats.Files)
}

func TestHandleStats_StoreOutage(t *testing.T) {
	status := &fakeStatus{
		statsFn: func(context.Context) (services.Stats, error) {
			return services.Stats{}, fmt.Errorf("db error: %w", common.ErrorUnavailable)
		},
	}
	srv := newTestServer(nil, nil, status)

	rec := doRequest(t, srv, http.MethodGet, "/stats", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service unavailable", decodeBody[errorResponse](t, rec).Error)
}
