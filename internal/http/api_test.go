package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/memory"
	"profile-service/internal/repository/repotest"
	"profile-service/internal/service"
)

var fixedNow = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type brokenRepo struct{}

func (brokenRepo) Load(context.Context) ([]domain.Profile, error) {
	return nil, domain.NewStorageError("load", errors.New("unexpected end of JSON input"))
}

func (brokenRepo) Save(context.Context, []domain.Profile) error {
	return domain.NewStorageError("save", errors.New("read-only file system"))
}

func newRouter(t *testing.T, repo repository.ProfileRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := service.NewProfileService(repo, service.WithClock(func() time.Time { return fixedNow }))
	router := gin.New()
	NewHandler(svc, logger).RegisterRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProfile(t *testing.T, rec *httptest.ResponseRecorder) domain.Profile {
	t.Helper()
	var p domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestIndex(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	rec := do(t, router, http.MethodGet, "/v1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message": "Kia ora te ao!"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	req := httptest.NewRequest(http.MethodGet, "/v1/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsReplacedWhenUnsafe(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	for name, id := range map[string]string{
		"too long":   strings.Repeat("a", maxRequestIDLen+1),
		"whitespace": "abc 123",
		"control":    "abc\x1b[31m",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/", nil)
			req.Header.Set(requestIDHeader, id)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			require.NotEqual(t, id, got)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
		})
	}
}

func TestGetProfile(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))
	want := repotest.Profiles()[1]

	rec := do(t, router, http.MethodGet, "/v1/profile/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, want, decodeProfile(t, rec))
	require.Contains(t, rec.Body.String(), `"full_name":"Lily Wright"`)
	require.Contains(t, rec.Body.String(), `"created_at":"2023-08-15T10:00:00Z"`)
}

func TestGetProfile_NotFound(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	rec := do(t, router, http.MethodGet, "/v1/profile/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"detail": "Profile not found"}`, rec.Body.String())
}

func TestGetProfile_InvalidID(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	rec := do(t, router, http.MethodGet, "/v1/profile/abc", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), `"profile_id"`)
}

func TestEditProfile(t *testing.T) {
	repo := memory.NewSeeded(repotest.Profiles())
	router := newRouter(t, repo)
	target := repotest.Profiles()[0]
	req := repotest.Request()

	rec := do(t, router, http.MethodPut, "/v1/profile/1", req)
	require.Equal(t, http.StatusOK, rec.Code)

	want := req.Apply(target)
	require.Equal(t, want, decodeProfile(t, rec))

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, stored[0])
	require.Equal(t, repotest.Profiles()[1:], stored[1:])
}

func TestEditProfile_NotFound(t *testing.T) {
	repo := memory.NewSeeded(repotest.Profiles())
	router := newRouter(t, repo)

	rec := do(t, router, http.MethodPut, "/v1/profile/999", repotest.Request())
	require.Equal(t, http.StatusNotFound, rec.Code)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, repotest.Profiles(), stored)
}

func TestEditProfile_ValidationError(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))
	req := repotest.Request()
	req.Email = "ethel.chen"

	rec := do(t, router, http.MethodPut, "/v1/profile/1", req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail []ValidationIssue `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	require.Equal(t, []string{"body", "email"}, body.Detail[0].Loc)
	require.Equal(t, "contains", body.Detail[0].Type)
}

func TestEditProfile_MalformedBody(t *testing.T) {
	router := newRouter(t, memory.NewSeeded(repotest.Profiles()))

	rec := do(t, router, http.MethodPut, "/v1/profile/1", `{"username": 5}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, router, http.MethodPut, "/v1/profile/1", `{"username":`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateProfile(t *testing.T) {
	repo := memory.NewSeeded(repotest.Profiles())
	router := newRouter(t, repo)
	req := repotest.Request()

	rec := do(t, router, http.MethodPost, "/v1/profile", req)
	require.Equal(t, http.StatusOK, rec.Code)

	want := req.Apply(domain.Profile{ID: 4, CreatedAt: fixedNow})
	require.Equal(t, want, decodeProfile(t, rec))

	rec = do(t, router, http.MethodGet, "/v1/profile/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, want, decodeProfile(t, rec))

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, append(repotest.Profiles(), want), stored)
}

func TestCreateProfile_ValidationError(t *testing.T) {
	repo := memory.NewSeeded(repotest.Profiles())
	router := newRouter(t, repo)

	rec := do(t, router, http.MethodPost, "/v1/profile", map[string]string{"gender": "female"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestStorageFailureIs500(t *testing.T) {
	router := newRouter(t, brokenRepo{})

	rec := do(t, router, http.MethodGet, "/v1/profile/1", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"detail": "Internal Server Error"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "JSON input")

	rec = do(t, router, http.MethodPost, "/v1/profile", repotest.Request())
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
