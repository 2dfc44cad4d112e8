package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/ferrowork/recordstate/internal/adapter/fsm"
	adapter "github.com/ferrowork/recordstate/internal/adapter/http"
	"github.com/ferrowork/recordstate/internal/adapter/sqlite"
	"github.com/ferrowork/recordstate/internal/app"
	"github.com/ferrowork/recordstate/internal/domain"
)

// noopPublisher is a no-op EventPublisher for tests.
type noopPublisher struct{}

func (p *noopPublisher) Publish(_ context.Context, _ domain.TransitionEvent) error {
	return nil
}

// newTestServer creates a full-stack httptest.Server with SQLite in-memory.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := app.NewRecordService(repo, &noopPublisher{}, fsm.New())

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("recordstate", "0.1.0"))
	adapter.Register(api, svc)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

// doRequest performs an HTTP request with context (avoids noctx linter).
func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

func decodeRecord(t *testing.T, resp *http.Response) adapter.RecordResponse {
	t.Helper()
	defer resp.Body.Close()

	var out adapter.RecordResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	return out
}

func decodeErrorDetail(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var out struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return out.Detail
}

// mustCreateDeal creates a deal via the API and returns its response.
func mustCreateDeal(t *testing.T, srv *httptest.Server, body string) adapter.RecordResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/stores/store-1/deal", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	return decodeRecord(t, resp)
}

// mustPatch applies an update and asserts it is accepted.
func mustPatch(t *testing.T, srv *httptest.Server, id, body string) adapter.RecordResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/stores/store-1/deal/"+id, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	return decodeRecord(t, resp)
}

func TestCreateRecord(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{"asking_price": 500000, "attributes": {"address": "12 Elm St"}}`)

	if rec.Status != "lead" {
		t.Errorf("status = %q, want %q", rec.Status, "lead")
	}
	if rec.AskingPrice == nil || *rec.AskingPrice != 500000 {
		t.Errorf("asking_price = %v, want 500000", rec.AskingPrice)
	}
	if rec.Attributes["address"] != "12 Elm St" {
		t.Errorf("address = %v, want %q", rec.Attributes["address"], "12 Elm St")
	}
}

func TestTransition_Accepted(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	updated := mustPatch(t, srv, rec.ID, `{"status": "viewing"}`)

	if updated.Status != "viewing" {
		t.Errorf("status = %q, want %q", updated.Status, "viewing")
	}
	if _, ok := updated.Stamps["viewing_date"]; !ok {
		t.Error("viewing_date should be stamped")
	}
	before, _ := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
	after, _ := time.Parse(time.RFC3339Nano, updated.UpdatedAt)
	if after.Before(before) {
		t.Errorf("updated_at went backwards: %q -> %q", rec.UpdatedAt, updated.UpdatedAt)
	}
}

func TestTransition_Rejected(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/stores/store-1/deal/"+rec.ID,
		`{"status": "contract"}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	detail := decodeErrorDetail(t, resp)
	want := "Cannot transition from lead to contract"
	if detail != want {
		t.Errorf("detail = %q, want %q", detail, want)
	}
}

func TestTransition_TerminalState(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	mustPatch(t, srv, rec.ID, `{"status": "viewing"}`)
	mustPatch(t, srv, rec.ID, `{"status": "lost"}`)

	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/stores/store-1/deal/"+rec.ID,
		`{"status": "lead"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	resp.Body.Close()
}

func TestClose_ComputesCommission(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{"asking_price": 100000000, "commission_rate": 5, "agent_share_rate": 50}`)
	mustPatch(t, srv, rec.ID, `{"status": "viewing"}`)
	mustPatch(t, srv, rec.ID, `{"status": "offer"}`)
	mustPatch(t, srv, rec.ID, `{"status": "contract"}`)

	closed := mustPatch(t, srv, rec.ID, `{"status": "closed", "final_price": 100000000}`)

	if closed.Status != "closed" {
		t.Errorf("status = %q, want %q", closed.Status, "closed")
	}
	if closed.CommissionAmount == nil || *closed.CommissionAmount != 5000000 {
		t.Errorf("commission_amount = %v, want 5000000", closed.CommissionAmount)
	}
	if closed.AgentShareAmount == nil || *closed.AgentShareAmount != 2500000 {
		t.Errorf("agent_share_amount = %v, want 2500000", closed.AgentShareAmount)
	}
	if closed.CompanyShareAmount == nil || *closed.CompanyShareAmount != 2500000 {
		t.Errorf("company_share_amount = %v, want 2500000", closed.CompanyShareAmount)
	}
	if _, ok := closed.Stamps["closed_date"]; !ok {
		t.Error("closed_date should be stamped")
	}
}

func TestClose_WithoutPrice(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	mustPatch(t, srv, rec.ID, `{"status": "viewing"}`)
	mustPatch(t, srv, rec.ID, `{"status": "offer"}`)
	mustPatch(t, srv, rec.ID, `{"status": "contract"}`)

	closed := mustPatch(t, srv, rec.ID, `{"status": "closed"}`)

	if closed.Status != "closed" {
		t.Errorf("status = %q, want %q", closed.Status, "closed")
	}
	if closed.CommissionAmount != nil {
		t.Errorf("commission_amount = %v, want absent", *closed.CommissionAmount)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/stores/store-1/deal/nonexistent",
		`{"status": "viewing"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestUpdate_EmptyBody(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	resp := doRequest(t, http.MethodPatch, srv.URL+"/api/v1/stores/store-1/deal/"+rec.ID, `{}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	detail := decodeErrorDetail(t, resp)
	if detail != "no changes supplied" {
		t.Errorf("detail = %q, want %q", detail, "no changes supplied")
	}
}

func TestUpdate_OtherStoreIsInvisible(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)

	resp := doRequest(t, http.MethodPatch,
		fmt.Sprintf("%s/api/v1/stores/store-2/deal/%s", srv.URL, rec.ID),
		`{"status": "viewing"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestGetRecord(t *testing.T) {
	srv := newTestServer(t)

	rec := mustCreateDeal(t, srv, `{}`)
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/stores/store-1/deal/"+rec.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	got := decodeRecord(t, resp)
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}
}

func TestListRecords(t *testing.T) {
	srv := newTestServer(t)

	mustCreateDeal(t, srv, `{}`)
	rec := mustCreateDeal(t, srv, `{}`)
	mustPatch(t, srv, rec.ID, `{"status": "viewing"}`)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/stores/store-1/deal?status=viewing", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	defer resp.Body.Close()

	var records []adapter.RecordResponse
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID != rec.ID {
		t.Errorf("ID = %q, want %q", records[0].ID, rec.ID)
	}
}

func TestUnknownResourceType(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/stores/store-1/invoice", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}
