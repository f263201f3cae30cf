package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/auth"
	"github.com/sungwon/mailvet/internal/config"
	"github.com/sungwon/mailvet/internal/jobs"
	"github.com/sungwon/mailvet/internal/reportstore"
)

// newTestServer wires a router with in-memory stores. The submitted
// addresses in these tests all fail local classification, so no DNS or
// SMTP traffic happens.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reports, err := reportstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	svc := NewService(config.VerifyConfig{Workers: 4}, jobs.NewMemoryStore(), reports, zerolog.Nop())
	router := NewRouter(svc, auth.NewKeychain(nil), nil, zerolog.Nop())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postValidation(t *testing.T, srv *httptest.Server, req ValidationRequest) jobResponse {
	t.Helper()

	body, _ := json.Marshal(req)
	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return job
}

func waitForCompletion(t *testing.T, srv *httptest.Server, id string) jobResponse {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/api/v1/validations/" + id)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		var job jobResponse
		err = json.NewDecoder(resp.Body).Decode(&job)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if job.State == jobs.StateCompleted {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
	return jobResponse{}
}

func TestValidationEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	job := postValidation(t, srv, ValidationRequest{
		Addresses: []string{
			"not-an-email",
			"user@mailinator.com",
			"user@blocked.example",
		},
		Blacklist: []string{"blocked.example"},
	})
	if job.ID == "" {
		t.Fatal("expected a job ID")
	}
	if job.Total != 3 {
		t.Errorf("total = %d, want 3", job.Total)
	}

	done := waitForCompletion(t, srv, job.ID)
	if done.Progress != 1.0 {
		t.Errorf("progress = %v, want exactly 1.0", done.Progress)
	}
	if done.Completed != 3 {
		t.Errorf("completed = %d, want 3", done.Completed)
	}
	if done.Summary["Invalid"] != 1 || done.Summary["Disposable"] != 1 || done.Summary["Blacklisted"] != 1 {
		t.Errorf("summary = %v", done.Summary)
	}
	if len(done.Results) != 3 {
		t.Errorf("results = %d, want 3", len(done.Results))
	}
}

func TestValidationReport(t *testing.T) {
	srv := newTestServer(t)

	job := postValidation(t, srv, ValidationRequest{
		Addresses: []string{"user@mailinator.com"},
	})
	waitForCompletion(t, srv, job.ID)

	resp, err := http.Get(srv.URL + "/api/v1/validations/" + job.ID + "/report")
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("Email,Status,Message")) {
		t.Errorf("report does not start with CSV header: %q", buf.String())
	}
}

func TestValidationRejectsEmptyBatch(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(ValidationRequest{Addresses: []string{"", "  "}})
	resp, err := http.Post(srv.URL+"/api/v1/validations", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestValidationUnknownJob(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/validations/no-such-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestValidationRequiresAPIKey(t *testing.T) {
	hash, err := auth.HashAPIKey("secret")
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}

	reports, err := reportstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	svc := NewService(config.VerifyConfig{Workers: 4}, jobs.NewMemoryStore(), reports, zerolog.Nop())
	router := NewRouter(svc, auth.NewKeychain([]string{hash}), nil, zerolog.Nop())
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/validations/some-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without credentials", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	healthResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer healthResp.Body.Close()
	if healthResp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200 without auth", healthResp.StatusCode)
	}
}
