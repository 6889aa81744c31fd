package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tokito/genka-kanri/internal/auth"
	"github.com/tokito/genka-kanri/internal/excel"
	"github.com/tokito/genka-kanri/internal/http/middleware"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/repository"
	"github.com/tokito/genka-kanri/internal/service"
	"github.com/tokito/genka-kanri/internal/store"
)

type testServer struct {
	router    *gin.Engine
	documents *repository.DocumentRepository
	token     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.DataRecord{}, &model.User{}))

	log := zerolog.Nop()
	documents := repository.NewDocumentRepository(db)
	gateway := store.NewGateway(documents, "default", log)
	ds, err := gateway.Load(context.Background())
	require.NoError(t, err)

	flusher := store.NewFlusher(gateway, time.Hour, log)
	t.Cleanup(func() { flusher.Close(context.Background()) })

	tracker := service.NewTracker(ds, flusher, excel.NewGenerator(), nil, excel.DefaultImportRules(), log)
	revoker := auth.NewMemoryRevoker()
	authService := service.NewAuthService(repository.NewUserRepository(db), auth.NewIssuer("secret", time.Hour), revoker, true, log)

	handler := NewHandler(tracker, authService, log)
	router := NewRouter(handler, middleware.Auth(auth.NewParser("secret"), revoker, log), "test", nil)

	s := &testServer{router: router, documents: documents}
	w := s.do(t, http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "sato@example.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	s.token = session.Token
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestProjectFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/projects", map[string]interface{}{
		"name": "△△ビル 外壁改修", "client": "株式会社ABC", "amount": 8_500_000,
		"mode": "subcontract", "marginRate": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[model.Project](t, w)
	assert.Equal(t, int64(7_480_000), project.SubcontractAmount)
	assert.NotEmpty(t, project.ManagementNumber)

	w = s.do(t, http.MethodPost, "/api/projects/"+project.ID+"/changes", map[string]interface{}{"type": "increase", "amount": 500_000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	line := decode[struct {
		Project model.Project `json:"project"`
		Stats   struct {
			EffectiveContract int64 `json:"effectiveContract"`
			Profit            int64 `json:"profit"`
		} `json:"stats"`
	}](t, w)
	assert.Equal(t, int64(9_000_000), line.Stats.EffectiveContract)
	assert.Equal(t, int64(9_000_000), line.Project.ContractAmount)
	assert.Equal(t, int64(1_080_000), line.Stats.Profit)

	w = s.do(t, http.MethodPost, "/api/projects/"+project.ID+"/costs", map[string]interface{}{"category": "fuel", "amount": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/projects/"+project.ID+"/purge", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodDelete, "/api/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/projects?view=deleted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), project.ID)

	w = s.do(t, http.MethodDelete, "/api/projects/"+project.ID+"/purge", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/projects?view=trash", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlushPersistsDocument(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/vehicles", map[string]string{"registration": "和泉 400 あ 12"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/sync", nil)
	assert.JSONEq(t, `{"pending": true}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/sync/flush", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"persisted": true}`, w.Body.String())

	record, err := s.documents.Get(context.Background(), "default")
	require.NoError(t, err)
	assert.Contains(t, string(record.Data), "和泉 400 あ 12")
}

func TestBidPromotion(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/bids", map[string]interface{}{"name": "管渠更生", "client": "市", "status": "won", "orderAmount": 2_000_000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bid := decode[model.BidSchedule](t, w)

	w = s.do(t, http.MethodPost, "/api/bids/"+bid.ID+"/promote", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[model.Project](t, w)
	assert.Equal(t, int64(2_000_000), project.OriginalAmount)

	w = s.do(t, http.MethodPost, "/api/bids/"+bid.ID+"/promote", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProcessChecklist(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/projects", map[string]interface{}{"name": "n", "client": "c", "amount": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[model.Project](t, w)
	base := "/api/projects/" + project.ID + "/processes"

	w = s.do(t, http.MethodPost, base, map[string]string{"processMasterId": "pm01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	process := decode[model.ProjectProcess](t, w)

	w = s.do(t, http.MethodPost, base+"/"+process.ID+"/sections", map[string]string{"name": "No.1"})
	require.Equal(t, http.StatusCreated, w.Code)
	section := decode[model.ProjectSection](t, w)
	require.NotEmpty(t, section.Subtasks)

	w = s.do(t, http.MethodPost, base+"/"+process.ID+"/sections/"+section.ID+"/subtasks/"+section.Subtasks[0].ID+"/toggle", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/api/projects/"+project.ID+"/sync-progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	synced := decode[model.Project](t, w)
	assert.Greater(t, synced.Progress, 0)

	w = s.do(t, http.MethodPut, base+"/"+process.ID+"/status", map[string]string{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportDesignBook_RejectsGarbage(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/projects", map[string]interface{}{"name": "n", "client": "c", "amount": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[model.Project](t, w)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "design.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a workbook"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+project.ID+"/design-book", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExports(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/export/csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeff管理番号"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	w = s.do(t, http.MethodGet, "/api/export/xlsx?view=archived", nil)
	require.Equal(t, http.StatusOK, w.Code)

	projects := decode[struct {
		Items []struct {
			Project model.Project `json:"project"`
		} `json:"items"`
	}](t, s.do(t, http.MethodGet, "/api/projects", nil))
	require.NotEmpty(t, projects.Items)

	w = s.do(t, http.MethodGet, "/api/projects/"+projects.Items[0].Project.ID+"/export/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sato@example.com")

	w = s.do(t, http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "SATO@example.com", "password": "password1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/auth/password", map[string]string{"currentPassword": "wrong-one", "newPassword": "password2"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPut, "/api/auth/password", map[string]string{"currentPassword": "password1", "newPassword": "password2"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/sign-out", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.token = ""
	w = s.do(t, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "sato@example.com", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "sato@example.com", "password": "password2"})
	require.Equal(t, http.StatusOK, w.Code)
	s.token = decode[sessionResponse](t, w).Token

	w = s.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
