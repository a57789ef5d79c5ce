package ops

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSlackNotifier_PostsToSeverityWebhook(t *testing.T) {
	var got struct {
		path string
		body string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.path = r.URL.Path
		got.body = string(body)
	}))
	defer srv.Close()

	n := NewSlackNotifier(SlackConfig{
		WarnWebhookURL: srv.URL + "/warn-hook",
	}, discardLogger())

	n.Notify(context.Background(), SeverityWarn, "unparsable chapter id")

	if got.path != "/warn-hook" {
		t.Errorf("posted to %q, want /warn-hook", got.path)
	}
	if want := `{"text":"unparsable chapter id"}`; got.body != want {
		t.Errorf("body = %q, want %q", got.body, want)
	}
}

func TestSlackNotifier_SkipsUnconfiguredSeverity(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewSlackNotifier(SlackConfig{
		ErrorWebhookURL: srv.URL,
	}, discardLogger())

	n.Notify(context.Background(), SeverityInfo, "ingestion finished")

	if called {
		t.Error("info notification was delivered to the error webhook config")
	}
}

func TestSlackNotifier_SwallowsDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(SlackConfig{
		ErrorWebhookURL: srv.URL,
	}, discardLogger())

	// Must not panic or propagate anything.
	n.Notify(context.Background(), SeverityError, "feed fetch failed")
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeverityWarn, "warn"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
