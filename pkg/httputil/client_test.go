package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wonny/screener/pkg/logger"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Referer") != "https://finance.naver.com/" {
			t.Errorf("Referer = %q, want forwarded header", r.Header.Get("Referer"))
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(logger.NewNop())
	body, err := client.Get(context.Background(), server.URL, map[string]string{
		"Referer": "https://finance.naver.com/",
	})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != `{"status":"ok"}` {
		t.Errorf("Get() body = %s", body)
	}
}

func TestGet_RetriesOn500(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	client := New(logger.NewNop(), WithMaxRetries(3))
	client.baseDelay = time.Millisecond

	body, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("Get() body = %s, want recovered", body)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestGet_NoRetryOn404(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(logger.NewNop(), WithMaxRetries(3))
	client.baseDelay = time.Millisecond

	_, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Get() error = nil, want error on 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 4xx)", got)
	}
}

func TestGet_ExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(logger.NewNop(), WithMaxRetries(1))
	client.baseDelay = time.Millisecond

	_, err := client.Get(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Get() error = nil, want error after exhausted retries")
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Errorf("error = %v, want wrapped 503 status", err)
	}
}

func TestGet_UserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "screener-test" {
			t.Errorf("User-Agent = %q, want screener-test", ua)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(logger.NewNop(), WithUserAgent("screener-test"))
	if _, err := client.Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}

func TestGet_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(logger.NewNop(), WithMaxRetries(5))
	client.baseDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := client.Get(ctx, server.URL, nil)
	if err == nil {
		t.Fatal("Get() error = nil, want context error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Get() did not honor context cancellation")
	}
}
