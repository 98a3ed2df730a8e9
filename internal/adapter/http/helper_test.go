package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mw "savings-group-backend/internal/adapter/middleware"
	"savings-group-backend/internal/adapter/repository/gormstore"
	"savings-group-backend/internal/domain/identity"
	"savings-group-backend/internal/usecase/group"
	"savings-group-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type testServer struct {
	e *echo.Echo
}

// newTestServer wires the real usecases over an in-memory sqlite store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := gormstore.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := gormstore.NewGormUoW(db)
	ids := identity.ContextProvider{}
	groups := group.NewUsecase(store.Repos(), store, 3)
	loans := loan.NewUsecase(store.Repos(), store, ids)

	e := echo.New()
	e.Validator = NewValidator()
	e.Use(mw.Identity())
	RegisterRoutes(e, NewHandler(), NewGroupHandler(groups, ids), NewLoanHandler(loans, groups, ids))
	return &testServer{e: e}
}

func (s *testServer) do(t *testing.T, method, path, member string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if member != "" {
		req.Header.Set(mw.HeaderMemberID, member)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

// createGroup opens a group presided by "pres" and deposits savings as "ana".
func (s *testServer) createGroup(t *testing.T, members int, savings string) string {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, "/groups", "", map[string]any{
		"name": "Mercado Norte", "president_id": "pres", "member_count": members,
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	g := decode[group.GroupDTO](t, rec)

	rec = s.do(t, stdhttp.MethodPost, "/groups/"+g.GroupID+"/deposits", "ana", map[string]any{"amount": json.Number(savings)})
	expectStatus(t, rec, stdhttp.StatusCreated)
	return g.GroupID
}
