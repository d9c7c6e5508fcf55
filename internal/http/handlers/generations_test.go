package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/middleware"
	"server/internal/sqlinline"
)

type generationRowData struct {
	id         string
	userID     string
	genType    string
	prompt     string
	fileURL    string
	isFavorite bool
}

type generationRows struct {
	TestRowsBase
	rows  []generationRowData
	total int
	idx   int
}

func (r *generationRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *generationRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	*dest[0].(*string) = row.id
	*dest[1].(*string) = row.userID
	*dest[2].(*string) = row.genType
	*dest[3].(*string) = row.prompt
	*dest[4].(*string) = row.fileURL
	*dest[5].(*string) = ""
	*dest[6].(*int) = 0
	*dest[7].(*int) = 0
	*dest[8].(*string) = "completed"
	*dest[9].(*int) = 10
	*dest[10].(*bool) = row.isFavorite
	*dest[11].(*time.Time) = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	*dest[12].(*int) = r.total
	return nil
}

func (r *generationRows) Close() {}

func (r *generationRows) Err() error { return nil }

func requestWithID(method, target, id string, body []byte) *http.Request {
	req := authedRequest(method, target, body)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGenerationsListFilters(t *testing.T) {
	var gotArgs []any
	sqlStub := &stubSQL{
		queryFn: func(query string, args ...any) (pgx.Rows, error) {
			if query != sqlinline.QListGenerations {
				t.Fatalf("unexpected query: %s", query)
			}
			gotArgs = args
			return &generationRows{
				rows: []generationRowData{
					{id: "g1", userID: testUserID, genType: "image", prompt: "a fox", fileURL: "https://cdn.example/1.png", isFavorite: true},
				},
				total: 7,
			}, nil
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	rr := httptest.NewRecorder()
	app.GenerationsList(rr, authedRequest(http.MethodGet, "/v1/generations?type=image&favorites=true&limit=5&offset=10", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	if gotArgs[0] != testUserID {
		t.Fatalf("user arg = %v", gotArgs[0])
	}
	typeFilter := gotArgs[1].(*string)
	if typeFilter == nil || *typeFilter != "image" {
		t.Fatalf("type filter = %v, want image", typeFilter)
	}
	if gotArgs[2] != true {
		t.Fatalf("favorites arg = %v, want true", gotArgs[2])
	}
	if gotArgs[3] != 5 || gotArgs[4] != 10 {
		t.Fatalf("limit/offset = %v/%v", gotArgs[3], gotArgs[4])
	}

	var resp struct {
		Generations []generationResponse `json:"generations"`
		Total       int                  `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 7 {
		t.Fatalf("total = %d, want 7", resp.Total)
	}
	if len(resp.Generations) != 1 || resp.Generations[0].ID != "g1" {
		t.Fatalf("generations = %+v", resp.Generations)
	}
}

func TestGenerationsListDefaults(t *testing.T) {
	sqlStub := &stubSQL{
		queryFn: func(query string, args ...any) (pgx.Rows, error) {
			if args[1].(*string) != nil {
				t.Fatalf("type filter = %v, want nil", args[1])
			}
			if args[2] != false {
				t.Fatalf("favorites arg = %v, want false", args[2])
			}
			if args[3] != defaultPageSize || args[4] != 0 {
				t.Fatalf("limit/offset = %v/%v", args[3], args[4])
			}
			return &generationRows{}, nil
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	rr := httptest.NewRecorder()
	app.GenerationsList(rr, authedRequest(http.MethodGet, "/v1/generations", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"generations":[]`) {
		t.Fatalf("body = %s, want empty list not null", rr.Body.String())
	}
}

func TestGenerationsListRejectsBadParams(t *testing.T) {
	app := newTestApp(&stubSQL{}, &stubGenerator{})

	for _, target := range []string{
		"/v1/generations?type=audio",
		"/v1/generations?limit=0",
		"/v1/generations?limit=abc",
		"/v1/generations?offset=-1",
	} {
		rr := httptest.NewRecorder()
		app.GenerationsList(rr, authedRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rr.Code)
		}
	}
}

func TestGenerationsUpdateFavorite(t *testing.T) {
	sqlStub := &stubSQL{
		queryRowFn: func(query string, args ...any) pgx.Row {
			if query != sqlinline.QSetGenerationFavorite {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "g1" || args[1] != testUserID || args[2] != true {
				t.Fatalf("args = %v", args)
			}
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "g1"
				*dest[1].(*string) = testUserID
				*dest[2].(*string) = "image"
				*dest[3].(*string) = "a fox"
				*dest[4].(*string) = "https://cdn.example/1.png"
				*dest[5].(*string) = ""
				*dest[6].(*int) = 0
				*dest[7].(*int) = 0
				*dest[8].(*string) = "completed"
				*dest[9].(*int) = 10
				*dest[10].(*bool) = true
				*dest[11].(*time.Time) = time.Now()
				return nil
			})
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	body := []byte(`{"is_favorite": true}`)
	rr := httptest.NewRecorder()
	app.GenerationsUpdate(rr, requestWithID(http.MethodPatch, "/v1/generations/g1", "g1", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"is_favorite":true`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestGenerationsUpdateForeignRowIsNotFound(t *testing.T) {
	sqlStub := &stubSQL{
		queryRowFn: func(query string, args ...any) pgx.Row {
			// Ownership mismatch: the statement matches no row.
			return SimpleRow{}
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	body := []byte(`{"is_favorite": true}`)
	rr := httptest.NewRecorder()
	app.GenerationsUpdate(rr, requestWithID(http.MethodPatch, "/v1/generations/g9", "g9", body))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGenerationsUpdateRequiresFlag(t *testing.T) {
	app := newTestApp(&stubSQL{}, &stubGenerator{})

	rr := httptest.NewRecorder()
	app.GenerationsUpdate(rr, requestWithID(http.MethodPatch, "/v1/generations/g1", "g1", []byte(`{}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGenerationsDelete(t *testing.T) {
	sqlStub := &stubSQL{
		execFn: func(query string, args ...any) (pgconn.CommandTag, error) {
			if query != sqlinline.QDeleteGeneration {
				t.Fatalf("unexpected exec: %s", query)
			}
			if args[0] != "g1" || args[1] != testUserID {
				t.Fatalf("args = %v", args)
			}
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	rr := httptest.NewRecorder()
	app.GenerationsDelete(rr, requestWithID(http.MethodDelete, "/v1/generations/g1", "g1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestGenerationsDeleteForeignRowIsNotFound(t *testing.T) {
	sqlStub := &stubSQL{
		execFn: func(query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	app := newTestApp(sqlStub, &stubGenerator{})

	rr := httptest.NewRecorder()
	app.GenerationsDelete(rr, requestWithID(http.MethodDelete, "/v1/generations/g9", "g9", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestGenerationsRequireAuth(t *testing.T) {
	app := newTestApp(&stubSQL{}, &stubGenerator{})

	handlers := map[string]http.HandlerFunc{
		"list":   app.GenerationsList,
		"update": app.GenerationsUpdate,
		"delete": app.GenerationsDelete,
	}
	for name, h := range handlers {
		req := httptest.NewRequest(http.MethodGet, "/v1/generations", nil)
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), ""))
		rr := httptest.NewRecorder()
		h(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rr.Code)
		}
	}
}
