package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/pucsync/internal/models"
)

func TestSubmitRecord_Success(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"saved":true}`))
	}))
	defer srv.Close()

	mobile := "9876543210"
	client := New(srv.URL)
	resp, err := client.SubmitRecord(models.SubmissionRecord{
		VehicleNo: "MH12AB1234",
		Mobile:    &mobile,
		Rate:      450,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if gotPath != "/dataEntry" {
		t.Errorf("path: got %q, want /dataEntry", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type: got %q", gotContentType)
	}

	var sent map[string]any
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if sent["vehicleNo"] != "MH12AB1234" || sent["mobile"] != "9876543210" {
		t.Errorf("request body: %v", sent)
	}
	if sent["rate"] != float64(450) {
		t.Errorf("rate: got %v", sent["rate"])
	}
	if sent["verified"] != false {
		t.Errorf("verified: got %v", sent["verified"])
	}

	if string(resp) != `{"saved":true}` {
		t.Errorf("response body: got %s", resp)
	}
}

func TestSubmitRecord_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL)
	if _, err := client.SubmitRecord(models.SubmissionRecord{VehicleNo: "MH12AB1234"}); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestSubmitRecord_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: connection refused

	client := New(srv.URL)
	if _, err := client.SubmitRecord(models.SubmissionRecord{VehicleNo: "MH12AB1234"}); err == nil {
		t.Fatal("expected error for refused connection")
	}
}

func TestSubmitRecord_StructuredAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"bad_request","message":"mobile required"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.SubmitRecord(models.SubmissionRecord{VehicleNo: "MH12AB1234"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "bad_request: mobile required" {
		t.Errorf("error: got %q", got)
	}
}
