package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/statmap/pkg/cache"
	"github.com/matzehuels/statmap/pkg/errors"
)

func fastRetry() Option { return WithRetry(3, time.Millisecond) }

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Write([]byte(`{"value":{"0":1.5}}`))
	}))
	defer srv.Close()

	c := NewClient(WithHeaders(map[string]string{"Accept": "application/json"}))
	body, err := c.Get(context.Background(), "test", srv.URL+"/data")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"value":{"0":1.5}}` {
		t.Errorf("body = %s", body)
	}
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"label":"Population density"}`))
	}))
	defer srv.Close()

	var v struct{ Label string }
	if err := NewClient().GetJSON(context.Background(), "test", srv.URL, &v); err != nil {
		t.Fatal(err)
	}
	if v.Label != "Population density" {
		t.Errorf("Label = %q", v.Label)
	}
}

func TestClientGetJSONInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var v map[string]any
	err := NewClient().GetJSON(context.Background(), "test", srv.URL, &v)
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("err = %v, want INVALID_DATA", err)
	}
}

func TestClientNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(fastRetry()).Get(context.Background(), "test", srv.URL)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := NewClient(fastRetry()).Get(context.Background(), "test", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "ok" || calls.Load() != 3 {
		t.Errorf("body=%q calls=%d", body, calls.Load())
	}
}

func TestClientGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(fastRetry()).Get(context.Background(), "test", srv.URL)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(WithCache(fc, time.Hour))
	ctx := context.Background()

	for range 2 {
		body, err := c.Get(ctx, "test", srv.URL)
		if err != nil || string(body) != "payload" {
			t.Fatalf("Get = %q, %v", body, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (second served from cache)", calls.Load())
	}

	if _, err := c.Refresh(ctx, "test", srv.URL); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 after Refresh", calls.Load())
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantCode  errors.Code
		retryable bool
	}{
		{200, "", false},
		{204, "", false},
		{404, errors.ErrCodeNotFound, false},
		{400, errors.ErrCodeNetwork, false},
		{500, errors.ErrCodeNetwork, true},
		{503, errors.ErrCodeNetwork, true},
	}
	for _, tt := range tests {
		err := checkStatus(tt.code)
		if got := errors.GetCode(err); got != tt.wantCode {
			t.Errorf("checkStatus(%d) code = %q, want %q", tt.code, got, tt.wantCode)
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("checkStatus(%d) retryable = %v", tt.code, !tt.retryable)
		}
	}
}
