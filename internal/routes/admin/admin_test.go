package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"ditto-go/internal/audit"
	"ditto-go/internal/middleware"
	"ditto-go/internal/shared"
	"ditto-go/internal/usage"
	"ditto-go/internal/vkeys"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func newAdminServer(t *testing.T, m *AdminManager) *httptest.Server {
	t.Helper()
	e := echo.New()
	g := e.Group("admin", middleware.NewTrackMiddleware(zap.NewNop().Sugar()))
	g.GET("/keys", m.ListKeys)
	g.POST("/keys", m.UpsertKey)
	g.DELETE("/keys/:id", m.DeleteKey)
	g.GET("/audit", m.ListAudit)
	g.GET("/usage", m.ListUsage)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuditStore(t *testing.T) *audit.Store {
	t.Helper()
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("failed to open audit store: %s", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func doRequest(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %s", err)
	}
	req.Header.Set("content-type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %s", err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %s", err)
	}
	return resp.StatusCode, out
}

func decodeAdminError(t *testing.T, body []byte) shared.AdminError {
	t.Helper()
	var adminErr shared.AdminError
	if err := json.Unmarshal(body, &adminErr); err != nil {
		t.Fatalf("failed to decode admin error %q: %s", body, err)
	}
	return adminErr
}

func TestListKeysRedactsTokens(t *testing.T) {
	keys := vkeys.NewStore([]string{"vk-alpha", "vk-beta"}, shared.Limits{})
	m := NewAdminManager(keys, nil, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/keys", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var listed []shared.VirtualKey
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("failed to decode keys: %s", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(listed))
	}
	if listed[0].ID != "key-1" || listed[1].ID != "key-2" {
		t.Errorf("expected keys sorted by id, got %q then %q", listed[0].ID, listed[1].ID)
	}
	for _, key := range listed {
		if key.Token != "redacted" {
			t.Errorf("expected token redacted for %s, got %q", key.ID, key.Token)
		}
	}

	status, body = doRequest(t, http.MethodGet, srv.URL+"/admin/keys?include_tokens=true", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("failed to decode keys: %s", err)
	}
	if listed[0].Token != "vk-alpha" {
		t.Errorf("expected real token with include_tokens, got %q", listed[0].Token)
	}
}

func TestListKeysFilters(t *testing.T) {
	keys := vkeys.NewStore([]string{"vk-alpha"}, shared.Limits{})
	keys.Upsert(shared.VirtualKey{ID: "off-1", Token: "vk-off", Enabled: false})
	m := NewAdminManager(keys, nil, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"enabled only", "?enabled=true", []string{"key-1"}},
		{"disabled only", "?enabled=false", []string{"off-1"}},
		{"id prefix", "?id_prefix=off", []string{"off-1"}},
		{"prefix misses", "?id_prefix=zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/keys"+tt.query, "")
			if status != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", status, body)
			}
			var listed []shared.VirtualKey
			if err := json.Unmarshal(body, &listed); err != nil {
				t.Fatalf("failed to decode keys: %s", err)
			}
			if len(listed) != len(tt.want) {
				t.Fatalf("expected %d keys, got %d: %s", len(tt.want), len(listed), body)
			}
			for i, id := range tt.want {
				if listed[i].ID != id {
					t.Errorf("expected key %q at %d, got %q", id, i, listed[i].ID)
				}
			}
		})
	}

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/keys?enabled=banana", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad enabled filter, got %d", status)
	}
	adminErr := decodeAdminError(t, body)
	if adminErr.Error.Code != "invalid_request" {
		t.Errorf("expected code invalid_request, got %q", adminErr.Error.Code)
	}
}

func TestUpsertKeyInsertThenUpdate(t *testing.T) {
	keys := vkeys.NewStore(nil, shared.Limits{})
	store := newTestAuditStore(t)
	m := NewAdminManager(keys, store, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodPost, srv.URL+"/admin/keys", `{"id":"key-ci","token":"vk-ci","limits":{"rpm":5}}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on insert, got %d: %s", status, body)
	}
	var created shared.VirtualKey
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("failed to decode key: %s", err)
	}
	if !created.Enabled {
		t.Error("expected enabled to default to true")
	}
	if created.Limits.RPM != 5 {
		t.Errorf("expected rpm limit 5, got %d", created.Limits.RPM)
	}

	status, body = doRequest(t, http.MethodPost, srv.URL+"/admin/keys", `{"id":"key-ci","token":"vk-ci2","enabled":false}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", status, body)
	}
	updated, ok := keys.Get("key-ci")
	if !ok {
		t.Fatal("expected key-ci in store")
	}
	if updated.Enabled {
		t.Error("expected key disabled after update")
	}
	if _, ok := keys.Lookup("vk-ci"); ok {
		t.Error("expected replaced token to stop resolving")
	}
	if _, ok := keys.Lookup("vk-ci2"); !ok {
		t.Error("expected new token to resolve")
	}

	records, err := store.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("failed to list audit records: %s", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 audit records, got %d", len(records))
	}
	var payload struct {
		KeyID    string `json:"key_id"`
		Inserted bool   `json:"inserted"`
	}
	if err := json.Unmarshal(records[0].Payload, &payload); err != nil {
		t.Fatalf("failed to decode audit payload: %s", err)
	}
	if records[0].Kind != "admin.key.upsert" || payload.KeyID != "key-ci" || payload.Inserted {
		t.Errorf("unexpected newest audit record: kind=%q payload=%s", records[0].Kind, records[0].Payload)
	}
}

func TestUpsertKeyGeneratesCredentials(t *testing.T) {
	keys := vkeys.NewStore(nil, shared.Limits{})
	m := NewAdminManager(keys, nil, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodPost, srv.URL+"/admin/keys", `{}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var key shared.VirtualKey
	if err := json.Unmarshal(body, &key); err != nil {
		t.Fatalf("failed to decode key: %s", err)
	}
	if len(key.ID) != 26 {
		t.Errorf("expected generated ulid id, got %q", key.ID)
	}
	if !strings.HasPrefix(key.Token, shared.KeyTokenPrefix) {
		t.Errorf("expected token prefix %q, got %q", shared.KeyTokenPrefix, key.Token)
	}
	if len(key.Token) != len(shared.KeyTokenPrefix)+shared.KeyTokenLength {
		t.Errorf("unexpected token length %d: %q", len(key.Token), key.Token)
	}
	if _, ok := keys.Lookup(key.Token); !ok {
		t.Error("expected generated token to resolve in store")
	}
}

func TestDeleteKey(t *testing.T) {
	keys := vkeys.NewStore([]string{"vk-alpha"}, shared.Limits{})
	store := newTestAuditStore(t)
	m := NewAdminManager(keys, store, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodDelete, srv.URL+"/admin/keys/key-1", "")
	if status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", status, body)
	}
	if len(body) != 0 {
		t.Errorf("expected empty body, got %q", body)
	}
	if keys.Enforced() {
		t.Error("expected store empty after delete")
	}

	status, body = doRequest(t, http.MethodDelete, srv.URL+"/admin/keys/key-1", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
	adminErr := decodeAdminError(t, body)
	if adminErr.Error.Code != "not_found" || adminErr.Error.Message != "virtual key not found" {
		t.Errorf("unexpected error envelope: %s", body)
	}

	records, err := store.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("failed to list audit records: %s", err)
	}
	if len(records) != 1 || records[0].Kind != "admin.key.delete" {
		t.Fatalf("expected one admin.key.delete record, got %+v", records)
	}
}

func TestListAuditNotConfigured(t *testing.T) {
	m := NewAdminManager(vkeys.NewStore(nil, shared.Limits{}), nil, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/audit", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", status, body)
	}
	adminErr := decodeAdminError(t, body)
	if adminErr.Error.Code != "not_configured" || adminErr.Error.Message != "audit store not configured" {
		t.Errorf("unexpected error envelope: %s", body)
	}
}

func TestListAuditQueries(t *testing.T) {
	store := newTestAuditStore(t)
	for _, kind := range []string{"first", "second", "third"} {
		if err := store.Append(context.Background(), kind, map[string]string{"kind": kind}); err != nil {
			t.Fatalf("failed to append: %s", err)
		}
	}
	m := NewAdminManager(vkeys.NewStore(nil, shared.Limits{}), store, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/audit", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var records []shared.AuditRecord
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("failed to decode records: %s", err)
	}
	if len(records) != 3 || records[0].Kind != "third" {
		t.Fatalf("expected 3 records newest first, got %+v", records)
	}
	newest := records[0].TsMS

	status, body = doRequest(t, http.MethodGet, srv.URL+"/admin/audit?limit=2", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("failed to decode records: %s", err)
	}
	if len(records) != 2 || records[0].Kind != "third" {
		t.Fatalf("expected 2 newest records, got %+v", records)
	}

	status, body = doRequest(t, http.MethodGet, srv.URL+"/admin/audit?since_ts_ms="+strconv.FormatInt(newest+1, 10), "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("failed to decode records: %s", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records past newest, got %+v", records)
	}

	for _, query := range []string{"?limit=0", "?limit=abc", "?since_ts_ms=-1", "?since_ts_ms=abc"} {
		status, body = doRequest(t, http.MethodGet, srv.URL+"/admin/audit"+query, "")
		if status != http.StatusBadRequest {
			t.Errorf("expected 400 for %q, got %d: %s", query, status, body)
		}
	}
}

func TestListUsage(t *testing.T) {
	ledger := usage.NewMemoryLedger()
	if err := ledger.Record(context.Background(), "key-b", 10, 5); err != nil {
		t.Fatalf("failed to record: %s", err)
	}
	if err := ledger.Record(context.Background(), "key-a", 4, 2); err != nil {
		t.Fatalf("failed to record: %s", err)
	}
	if err := ledger.Record(context.Background(), "key-a", 6, 3); err != nil {
		t.Fatalf("failed to record: %s", err)
	}
	m := NewAdminManager(vkeys.NewStore(nil, shared.Limits{}), nil, ledger, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/usage", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var stats []shared.UsageStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("failed to decode stats: %s", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stats))
	}
	if stats[0].KeyID != "key-a" || stats[0].Requests != 2 || stats[0].PromptTokens != 10 || stats[0].CompletionTokens != 5 {
		t.Errorf("unexpected key-a stats: %+v", stats[0])
	}
	if stats[1].KeyID != "key-b" || stats[1].Requests != 1 {
		t.Errorf("unexpected key-b stats: %+v", stats[1])
	}
}

func TestListUsageWithoutLedger(t *testing.T) {
	m := NewAdminManager(vkeys.NewStore(nil, shared.Limits{}), nil, nil, zap.NewNop().Sugar())
	srv := newAdminServer(t, m)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/admin/usage", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var stats []shared.UsageStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("failed to decode stats: %s", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
