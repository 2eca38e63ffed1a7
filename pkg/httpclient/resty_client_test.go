package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Custom") != "yes" {
			t.Errorf("header not forwarded")
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	c := NewRestyClient(2 * time.Second)
	resp, err := c.Get(context.Background(), srv.URL, map[string]string{"X-Custom": "yes"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK || string(resp.Body()) != "payload" {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode(), resp.Body())
	}
}

func TestRestyClientPostJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var got payload
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil || got.Name != "digest" {
			t.Errorf("bad body: %v %#v", err, got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewRestyClient(2 * time.Second)
	resp, err := c.PostJSON(context.Background(), srv.URL, nil, payload{Name: "digest"})
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode())
	}
}

func TestNewStdClientTimeout(t *testing.T) {
	c := NewStdClient(3 * time.Second)
	if c == nil {
		t.Fatalf("expected std client")
	}
}
