package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"FXStrength/internal/model"
)

func sampleReport() *model.StrengthReport {
	return &model.StrengthReport{
		Period: model.Period1W,
		From:   time.Date(2024, 6, 23, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Ranking: []model.RankEntry{
			{Rank: 1, Unit: "EUR", NormalizedScore: 100, RawScore: 0.42},
			{Rank: 2, Unit: "USD", NormalizedScore: 47.3, RawScore: -0.01},
			{Rank: 3, Unit: "JPY", NormalizedScore: 0, RawScore: -0.5},
		},
	}
}

func TestFormatRanking(t *testing.T) {
	msg := FormatRanking(sampleReport())

	for _, want := range []string{"1W", "2024-06-23 → 2024-06-30", "1. EUR ██████████ 100.0 (+0.42%)", "3. JPY ░░░░░░░░░░   0.0", "Strongest: <b>EUR</b>", "Weakest: <b>JPY</b>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score float64
		full  int
	}{
		{0, 0}, {4.9, 0}, {5, 1}, {47.3, 5}, {100, 10}, {120, 10}, {-3, 0},
	}
	for _, tt := range tests {
		got := strings.Count(scoreBar(tt.score), "█")
		if got != tt.full {
			t.Errorf("scoreBar(%.1f) has %d filled cells, want %d", tt.score, got, tt.full)
		}
	}
}

func TestFormatError_EscapesHTML(t *testing.T) {
	msg := FormatError("refresh", errors.New("bad <pair>"))
	if !strings.Contains(msg, "bad &lt;pair&gt;") {
		t.Errorf("error text not escaped: %s", msg)
	}
}

func TestFormatUniverse(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &model.Basket{
		Universe: []string{"USD", "EUR"},
		Dates:    []time.Time{d, d.AddDate(0, 0, 1)},
		Pairs:    []model.PairSeries{{Symbol: "EUR/USD"}},
		Source:   "mock",
	}
	msg := FormatUniverse(b)
	if !strings.Contains(msg, "1 pairs | 2 dates") || !strings.Contains(msg, "EUR/USD") {
		t.Errorf("unexpected universe message: %s", msg)
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.BaseURL = srv.URL
	if err := tn.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.BaseURL = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hi", 1); err != nil {
		t.Fatalf("send with retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestTelegramNotifier_StartPolling(t *testing.T) {
	var polls atomic.Int32
	replies := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottoken/getUpdates":
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":1,"message":{"text":"/pairs","chat":{"id":42}}},
					{"update_id":2,"message":{"text":"/pairs","chat":{"id":7}}}]}`))
				return
			}
			<-r.Context().Done()
		case "/bottoken/sendMessage":
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies <- p["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.BaseURL = srv.URL

	var handled atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
			handled.Add(1)
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case r := <-replies:
		if r != "reply to /pairs" {
			t.Errorf("unexpected reply %q", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done
	if handled.Load() != 1 {
		t.Errorf("expected only the configured chat to be handled, got %d", handled.Load())
	}
}
