package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifier_Delivers(t *testing.T) {
	var gotBody []byte
	var gotSig, gotTS string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Pucsync-Signature")
		gotTS = r.Header.Get("X-Pucsync-Timestamp")
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, "s3cret")
	if err := n.dispatch("Data Saved", "Vehicle MH12AB1234 details saved."); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(gotBody, &p); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if p.Title != "Data Saved" {
		t.Errorf("title: got %q", p.Title)
	}
	if p.DismissAfter != DismissAfterSeconds {
		t.Errorf("dismiss_after: got %d, want %d", p.DismissAfter, DismissAfterSeconds)
	}

	// Signature covers "<ts>.<body>"
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte(gotTS))
	mac.Write([]byte("."))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Errorf("signature: got %q, want %q", gotSig, want)
	}
}

func TestWebhookNotifier_NoSecretNoSignature(t *testing.T) {
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Pucsync-Signature")
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, "")
	if err := n.dispatch("t", "m"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if gotSig != "" {
		t.Errorf("unexpected signature header: %q", gotSig)
	}
}

func TestWebhookNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, "")
	if err := n.dispatch("t", "m"); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestWebhookNotifier_NotifySwallowsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	// Must not panic or block; errors are logged only.
	n := NewWebhook(srv.URL, "")
	n.Notify("t", "m")
}
