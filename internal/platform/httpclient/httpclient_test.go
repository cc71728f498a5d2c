package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Key") != "k" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 0)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}

	var out map[string]string
	err = c.DoJSON(context.Background(), http.MethodPost, "echo", map[string]string{"X-Key": "k"}, map[string]string{"name": "ilar"}, &out)
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out["echo"] != "ilar" {
		t.Fatalf("unexpected response %#v", out)
	}
}

func TestDoJSON_Non2xxIsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer ts.Close()

	err := New(0).DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, nil)
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestGetBytes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer ts.Close()

	b, ct, err := New(0).GetBytes(context.Background(), ts.URL+"/logo.png", nil)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if ct != "image/png" || len(b) != 4 {
		t.Fatalf("unexpected %q %v", ct, b)
	}
}

func TestResolveURL_RelativeWithoutBase(t *testing.T) {
	if _, err := New(0).resolveURL("/x"); err == nil {
		t.Fatalf("expected error")
	}
}
