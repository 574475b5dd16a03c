package holidays

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClient_Fetch(t *testing.T) {
	var gotKey, gotCountry, gotYear string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotCountry = r.URL.Query().Get("country")
		gotYear = r.URL.Query().Get("year")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":"New Year","date":"2025-01-01","type":"NATIONAL_HOLIDAY"},
			{"name":"Some Eve","date":"2025-01-05","type":"OBSERVANCE"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticKey("secret"), time.Second, zap.NewNop())

	records, err := client.Fetch(context.Background(), "pl", 2025)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("X-Api-Key = %q, want %q", gotKey, "secret")
	}
	if gotCountry != "PL" {
		t.Errorf("country = %q, want PL", gotCountry)
	}
	if gotYear != "2025" {
		t.Errorf("year = %q, want 2025", gotYear)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Name != "New Year" || records[1].Name != "Some Eve" {
		t.Errorf("records out of server order: %+v", records)
	}
}

func TestClient_Fetch_DefaultsAndNoYear(t *testing.T) {
	var hasYear bool
	var gotCountry string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasYear = r.URL.Query()["year"]
		gotCountry = r.URL.Query().Get("country")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticKey("k"), time.Second, zap.NewNop())
	if _, err := client.Fetch(context.Background(), "", 0); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotCountry != DefaultCountry {
		t.Errorf("country = %q, want %q", gotCountry, DefaultCountry)
	}
	if hasYear {
		t.Error("year query parameter sent, want omitted")
	}
}

func TestClient_Fetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid API Key."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticKey("bad"), time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background(), "PL", 0)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if fe.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", fe.StatusCode, http.StatusBadRequest)
	}
	if fe.Body != `{"error":"Invalid API Key."}` {
		t.Errorf("Body = %q, want raw response text", fe.Body)
	}
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, StaticKey("k"), time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background(), "PL", 0)

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network failure", fe.StatusCode)
	}
	if errors.Is(err, ErrCancelled) {
		t.Error("network failure reported as cancellation")
	}
}

func TestClient_Fetch_Cancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, StaticKey("k"), 5*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.Fetch(ctx, "PL", 0)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Fetch() error = %v, want ErrCancelled", err)
	}
	if IsFetchError(err) {
		t.Error("cancellation reported as FetchError")
	}
}

func TestClient_Fetch_MissingKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", StaticKey(""), time.Second, zap.NewNop())
	_, err := client.Fetch(context.Background(), "PL", 0)
	if !IsFetchError(err) {
		t.Fatalf("Fetch() error = %v, want FetchError", err)
	}
}
