package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ongekimuseum/museum-server/internal/errors"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		URLs:    []string{url},
		Timeout: 5 * time.Second,
		Spacing: time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestFetch_DecodesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"new":"NEW","date":"20250101","title":"Jump!! Jump!! Jump!!","title_sort":"シヤンフシヤンフシヤンフ","artist":"ももいろクローバーZ","id":"1","chapter":"01 ブート","chap_id":"70001","lunatic":"","bonus":"","copyright1":"-","lev_bas":"10","lev_adv":"12","lev_exc":"13+","lev_mas":"14"}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	records, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Title != "Jump!! Jump!! Jump!!" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.ChapID != "70001" {
		t.Errorf("ChapID = %q", rec.ChapID)
	}
	if rec.Copyright != "-" {
		t.Errorf("Copyright = %q", rec.Copyright)
	}
	if rec.LevExc != "13+" {
		t.Errorf("LevExc = %q", rec.LevExc)
	}
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrTransport) {
		t.Fatalf("err = %v, want TRANSPORT", err)
	}
}

func TestFetch_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("err = %v, want PARSE", err)
	}
}

func TestFetch_EmptyPayloadIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("err = %v, want PARSE", err)
	}
}

func TestNewClient_RejectsEmptyURLList(t *testing.T) {
	_, err := NewClient(Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestFetch_PacesConsecutiveRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"x"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		URLs:    []string{srv.URL},
		Spacing: 50 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	start := time.Now()
	for range 3 {
		if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three fetches finished in %v, expected pacing of at least 100ms", elapsed)
	}
}
