package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ducky705/Live-Pick-Scraper/internal/db"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pick"
	"github.com/Ducky705/Live-Pick-Scraper/internal/pipeline"
)

type fakeStore struct {
	mu          sync.Mutex
	pingErr     error
	picks       []db.PickListItem
	pickOpts    []db.PickListOptions
	cappers     []db.CapperListItem
	statsDays   []time.Time
	inserted    []pick.RawMessage
	insertID    int64
	insertErr   error
	listPickErr error
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListPicks(_ context.Context, opts db.PickListOptions) ([]db.PickListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickOpts = append(s.pickOpts, opts)
	if s.listPickErr != nil {
		return nil, s.listPickErr
	}
	return s.picks, nil
}

func (s *fakeStore) ListCappers(_ context.Context, limit int) ([]db.CapperListItem, error) {
	if limit < len(s.cappers) {
		return s.cappers[:limit], nil
	}
	return s.cappers, nil
}

func (s *fakeStore) QueryPipelineStats(_ context.Context, day time.Time) (*db.PipelineStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsDays = append(s.statsDays, day)
	return &db.PipelineStats{Day: pick.FormatDate(day)}, nil
}

func (s *fakeStore) InsertRawMessage(_ context.Context, msg pick.RawMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = append(s.inserted, msg)
	return s.insertID, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(store *fakeStore, tokenHash string) *Server {
	engine := pipeline.NewEngine(pipeline.EngineOptions{})
	return NewServer(store, engine, nil, zerolog.Nop(), Options{TokenHash: tokenHash})
}

func do(t *testing.T, s *Server, method, target, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 50},
		{raw: " 10 ", want: 10},
		{raw: "0", wantErr: true},
		{raw: "501", wantErr: true},
		{raw: "ten", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parsePositiveInt(tc.raw, 50, 1, 500)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.raw)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %d, %v want %d", tc.raw, got, err, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newTestServer(&fakeStore{}, ""), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("unexpected health response: %d %+v", rec.Code, env)
	}

	rec, env = do(t, newTestServer(&fakeStore{pingErr: errors.New("down")}, ""), http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusServiceUnavailable || env.Status != "error" {
		t.Fatalf("expected unavailable, got %d %+v", rec.Code, env)
	}
}

func TestPicksPassesFilters(t *testing.T) {
	t.Parallel()

	store := &fakeStore{picks: []db.PickListItem{{ID: 1, CapperName: "Sharp Shooter", PickValue: "Lakers -5"}}}
	rec, env := do(t, newTestServer(store, ""), http.MethodGet, "/api/v1/picks?date=2025-10-12&league=nba&capper_id=4&limit=5", "", nil)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}

	want := []db.PickListOptions{{Date: "2025-10-12", CapperID: 4, League: "NBA", Limit: 5}}
	if diff := cmp.Diff(want, store.pickOpts); diff != "" {
		t.Fatalf("unexpected list options (-want +got):\n%s", diff)
	}

	var data struct {
		Items []db.PickListItem `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Items) != 1 || data.Items[0].PickValue != "Lakers -5" {
		t.Fatalf("unexpected items: %+v", data.Items)
	}
}

func TestPicksRejectsBadQuery(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	s := newTestServer(store, "")
	for _, target := range []string{
		"/api/v1/picks?limit=0",
		"/api/v1/picks?date=10/12/2025",
		"/api/v1/picks?capper_id=abc",
	} {
		rec, env := do(t, s, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusBadRequest || env.Status != "fail" {
			t.Fatalf("%s: expected validation failure, got %d %+v", target, rec.Code, env)
		}
	}
	if len(store.pickOpts) != 0 {
		t.Fatalf("store must not be queried for invalid filters")
	}
}

func TestPicksStoreFailure(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newTestServer(&fakeStore{listPickErr: errors.New("boom")}, ""), http.MethodGet, "/api/v1/picks", "", nil)
	if rec.Code != http.StatusInternalServerError || env.Status != "error" {
		t.Fatalf("expected internal error, got %d %+v", rec.Code, env)
	}
}

func TestStatsUsesRequestedDay(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	rec, _ := do(t, newTestServer(store, ""), http.MethodGet, "/api/v1/stats?date=2025-10-12", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(store.statsDays) != 1 || pick.FormatDate(store.statsDays[0]) != "2025-10-12" {
		t.Fatalf("unexpected stats day: %v", store.statsDays)
	}
}

func TestCappersLimit(t *testing.T) {
	t.Parallel()

	store := &fakeStore{cappers: []db.CapperListItem{{ID: 1, CanonicalName: "A"}, {ID: 2, CanonicalName: "B"}}}
	_, env := do(t, newTestServer(store, ""), http.MethodGet, "/api/v1/cappers?limit=1", "", nil)

	var data struct {
		Items []db.CapperListItem `json:"items"`
		Limit int                 `json:"limit"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Limit != 1 || len(data.Items) != 1 || data.Items[0].CanonicalName != "A" {
		t.Fatalf("unexpected cappers payload: %+v", data)
	}
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newTestServer(&fakeStore{}, ""), http.MethodPost, "/api/v1/parse",
		`{"text": "Lakers -5 -110", "author": "Sharp Shooter", "occurred_at": "2025-10-12T18:00:00Z"}`, nil)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}

	var preview pipeline.Preview
	if err := json.Unmarshal(env.Data, &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if !preview.Accepted || preview.Routed {
		t.Fatalf("expected accepted preview, got %+v", preview)
	}
	if preview.PickDate != "2025-10-12" {
		t.Fatalf("unexpected pick date %q", preview.PickDate)
	}
	if len(preview.Picks) != 1 || preview.Picks[0].BetType != pick.BetSpread || preview.Picks[0].PickText != "Lakers -5" {
		t.Fatalf("unexpected picks: %+v", preview.Picks)
	}
}

func TestParseRejectsBadBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(&fakeStore{}, "")
	for _, body := range []string{
		``,
		`{"text": ""}`,
		`{"text": "Lakers -5", "bogus": 1}`,
		`{"text": "Lakers -5", "occurred_at": "yesterday"}`,
	} {
		rec, env := do(t, s, http.MethodPost, "/api/v1/parse", body, nil)
		if rec.Code != http.StatusBadRequest || env.Status != "fail" {
			t.Fatalf("%q: expected validation failure, got %d %+v", body, rec.Code, env)
		}
	}
}

const ingestBody = `{"source_unique_id": "tg:100", "channel_name": "Capper Central", "raw_text": "Lakers -5", "occurred_at": "2025-10-12T18:00:00Z"}`

func TestIngestRequiresToken(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}

	store := &fakeStore{insertID: 9}
	s := newTestServer(store, string(hash))

	rec, _ := do(t, s, http.MethodPost, "/api/v1/messages", ingestBody, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate header")
	}

	rec, _ = do(t, s, http.MethodPost, "/api/v1/messages", ingestBody, http.Header{"Authorization": {"Bearer wrong"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", rec.Code)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("unauthorized requests must not insert")
	}

	rec, env := do(t, s, http.MethodPost, "/api/v1/messages", ingestBody, http.Header{"Authorization": {"Bearer secret-token"}})
	if rec.Code != http.StatusCreated || env.Status != "success" {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	want := []pick.RawMessage{{
		SourceUniqueID: "tg:100",
		ChannelName:    "Capper Central",
		Text:           "Lakers -5",
		OccurredAt:     time.Date(2025, 10, 12, 18, 0, 0, 0, time.UTC),
		Status:         pick.StatusPending,
	}}
	if diff := cmp.Diff(want, store.inserted); diff != "" {
		t.Fatalf("unexpected inserted messages (-want +got):\n%s", diff)
	}
}

func TestIngestDuplicateAndInvalid(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	s := newTestServer(&fakeStore{insertID: 0}, string(hash))
	header := http.Header{"Authorization": {"Bearer secret-token"}}

	rec, env := do(t, s, http.MethodPost, "/api/v1/messages", ingestBody, header)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("expected 200 for duplicate, got %d", rec.Code)
	}
	var data struct {
		Inserted bool `json:"inserted"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Inserted {
		t.Fatalf("expected inserted=false, got %s (%v)", env.Data, err)
	}

	rec, env = do(t, s, http.MethodPost, "/api/v1/messages", `{"source_unique_id": "tg:101"}`, header)
	if rec.Code != http.StatusBadRequest || env.Status != "fail" {
		t.Fatalf("expected validation failure, got %d", rec.Code)
	}
}

func TestIngestDisabledWithoutTokenHash(t *testing.T) {
	t.Parallel()

	store := &fakeStore{insertID: 1}
	rec, _ := do(t, newTestServer(store, ""), http.MethodPost, "/api/v1/messages", ingestBody, http.Header{"Authorization": {"Bearer anything"}})
	if rec.Code != http.StatusUnauthorized || len(store.inserted) != 0 {
		t.Fatalf("expected writes to be disabled, got %d", rec.Code)
	}
}

func TestUnknownRouteIsJSend(t *testing.T) {
	t.Parallel()

	rec, env := do(t, newTestServer(&fakeStore{}, ""), http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Fatalf("expected jsend 404, got %d %+v", rec.Code, env)
	}
}
