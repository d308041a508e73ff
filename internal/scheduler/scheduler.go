package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"FXStrength/internal/calculator"
	"FXStrength/internal/collector"
	"FXStrength/internal/model"
	"FXStrength/internal/notifier"
	"FXStrength/internal/observability"
	"FXStrength/internal/recorder"
	"FXStrength/internal/strength"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Notifier delivers formatted messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron refresh task and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Service   *strength.Service
	Notifier  Notifier // nil disables notifications
	Recorder  recorder.Recorder
	Metrics   *observability.Metrics
	Period    model.Period
	Ctx       context.Context

	refreshMu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, svc *strength.Service, n Notifier, rec recorder.Recorder, period model.Period) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Service:   svc,
		Notifier:  n,
		Recorder:  rec,
		Period:    period,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() {
		if err := s.Refresh(s.Ctx, true); err != nil {
			log.Printf("[ERROR] scheduled refresh: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Refresh collects a new basket, publishes it to the service and records the
// ranking for the configured period. With notify set the ranking is also sent
// to the chat. Concurrent calls are serialized.
func (s *Scheduler) Refresh(ctx context.Context, notify bool) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	runID := uuid.NewString()
	log.Printf("[INFO] running refresh %s", runID)

	basket, err := s.Collector.Collect(ctx)
	s.recordFetch(runID, basket, err)
	if err != nil {
		s.Metrics.RecordRefresh(0, 0, err)
		if notify {
			s.trySend(ctx, notifier.FormatError("Market data refresh", err))
		}
		return fmt.Errorf("collect: %w", err)
	}
	s.Metrics.RecordRefresh(basket.Len(), len(basket.Pairs), nil)
	s.Service.SetBasket(basket)

	report, err := s.Service.Report(strength.Request{Period: s.Period})
	if err != nil {
		if notify {
			s.trySend(ctx, notifier.FormatError("Strength computation", err))
		}
		return fmt.Errorf("report: %w", err)
	}

	if err := s.Recorder.RecordRanking(&recorder.RankingSnapshot{
		RunID:   runID,
		Period:  report.Period,
		Source:  basket.Source,
		From:    report.From,
		AsOf:    report.To,
		Ranking: report.Ranking,
	}); err != nil {
		log.Printf("[ERROR] record ranking: %v", err)
	}

	if notify {
		s.trySend(ctx, notifier.FormatRanking(report))
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Commands sent in groups carry the bot name: /strength@FXStrengthBot
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/strength":
		period := s.Period
		if len(fields) > 1 {
			period = model.Period(strings.ToLower(fields[1]))
		}
		report, err := s.Service.Report(strength.Request{Period: period})
		if err != nil {
			return replyError(err)
		}
		return notifier.FormatRanking(report)
	case "/pairs":
		b := s.Service.Basket()
		if b == nil {
			return replyError(strength.ErrNoBasket)
		}
		return notifier.FormatUniverse(b)
	case "/refresh":
		if err := s.Refresh(ctx, false); err != nil {
			return notifier.FormatError("Refresh", err)
		}
		b := s.Service.Basket()
		return fmt.Sprintf("✅ Refreshed: %d pairs over %d dates", len(b.Pairs), b.Len())
	default:
		return notifier.HelpText()
	}
}

func replyError(err error) string {
	if calculator.IsConfigurationError(err) {
		return notifier.FormatError("Request", err) + "\n\n" + notifier.HelpText()
	}
	return notifier.FormatError("Request", err)
}

func (s *Scheduler) recordFetch(runID string, basket *model.Basket, fetchErr error) {
	evt := &recorder.FetchEvent{
		RunID:          runID,
		Source:         s.Collector.Fetcher.Name(),
		PairsRequested: len(s.Collector.Pairs),
	}
	if fetchErr != nil {
		evt.Error = fetchErr.Error()
	} else {
		evt.PairsFetched = len(basket.Pairs)
		evt.Dates = basket.Len()
	}
	if err := s.Recorder.RecordFetch(evt); err != nil {
		log.Printf("[ERROR] record fetch: %v", err)
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
