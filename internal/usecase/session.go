package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/features"
	"StartupPredictor/internal/ports"
	"StartupPredictor/internal/render"
)

// Session is the submission state of one client: an in-flight guard per
// submission kind and the last batch the client may download.
type Session struct {
	svc *Service

	manual *semaphore.Weighted
	batch  *semaphore.Weighted

	mu        sync.Mutex
	lastBatch *domain.BatchResult
	lastSeen  time.Time
	active    int
}

// ManualOutcome is the result of a manual submission.
type ManualOutcome struct {
	Vector domain.FeatureVector
	Result domain.PredictionResult
}

func newSession(svc *Service, now time.Time) *Session {
	return &Session{
		svc:      svc,
		manual:   semaphore.NewWeighted(1),
		batch:    semaphore.NewWeighted(1),
		lastSeen: now,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active == 0 && now.Sub(s.lastSeen) > ttl
}

func (s *Session) enter() {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
}

func (s *Session) leave() {
	now := s.svc.now()
	s.mu.Lock()
	s.active--
	s.lastSeen = now
	s.mu.Unlock()
}

// SubmitManual encodes the form input and requests a single prediction.
// A second manual submission while one is pending fails with ErrSubmissionInFlight.
func (s *Session) SubmitManual(ctx context.Context, input domain.ManualInput) (ManualOutcome, error) {
	vector := features.Encode(input)
	outcome := ManualOutcome{Vector: vector}

	if s.svc.predictor == nil {
		return outcome, fmt.Errorf("prediction client is not configured")
	}
	if !s.manual.TryAcquire(1) {
		return outcome, domain.ErrSubmissionInFlight
	}
	defer s.manual.Release(1)
	s.enter()
	defer s.leave()

	s.svc.debug("submit manual prediction", "features", vector.Values())

	result, err := s.svc.predictor.Predict(ctx, vector)
	if err != nil {
		s.svc.record(ctx, domain.KindManual, encodeVector(vector), "", err)
		return outcome, err
	}

	outcome.Result = result
	s.svc.record(ctx, domain.KindManual, encodeVector(vector), render.Prediction(result), nil)
	return outcome, nil
}

// SubmitBatch uploads a CSV file for bulk prediction. A nil file fails with
// ErrNoFileSelected before any network call. A successful result is retained
// under a fresh ID, replacing the previous one.
func (s *Session) SubmitBatch(ctx context.Context, fileName string, file io.Reader) (domain.BatchResult, error) {
	if file == nil {
		return domain.BatchResult{}, domain.ErrNoFileSelected
	}
	if s.svc.predictor == nil {
		return domain.BatchResult{}, fmt.Errorf("prediction client is not configured")
	}
	if !s.batch.TryAcquire(1) {
		return domain.BatchResult{}, domain.ErrSubmissionInFlight
	}
	defer s.batch.Release(1)
	s.enter()
	defer s.leave()

	s.mu.Lock()
	s.lastBatch = nil
	s.mu.Unlock()

	s.svc.debug("submit batch prediction", "file", fileName)

	result, err := s.svc.predictor.PredictBatch(ctx, fileName, file)
	if err != nil {
		s.svc.record(ctx, domain.KindBatch, fileName, "", err)
		return domain.BatchResult{}, err
	}
	result.ID = uuid.NewString()

	s.mu.Lock()
	s.lastBatch = &result
	s.mu.Unlock()

	s.svc.record(ctx, domain.KindBatch, fileName, render.Summarize(result).String(), nil)
	return result, nil
}

// LastBatch returns the most recent successful batch result.
func (s *Session) LastBatch() (domain.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastBatch == nil {
		return domain.BatchResult{}, domain.ErrNoBatch
	}
	return *s.lastBatch, nil
}

// Batch returns the retained batch when its ID matches.
func (s *Session) Batch(id string) (domain.BatchResult, error) {
	batch, err := s.LastBatch()
	if err != nil {
		return domain.BatchResult{}, err
	}
	if id == "" || batch.ID != id {
		return domain.BatchResult{}, domain.ErrNoBatch
	}
	return batch, nil
}

// Export writes the last batch with the given exporter.
func (s *Session) Export(w io.Writer, exporter ports.Exporter) error {
	batch, err := s.LastBatch()
	if err != nil {
		return err
	}
	return exportBatch(w, batch, exporter)
}

// ExportBatch writes the retained batch with the given ID.
func (s *Session) ExportBatch(w io.Writer, id string, exporter ports.Exporter) error {
	batch, err := s.Batch(id)
	if err != nil {
		return err
	}
	return exportBatch(w, batch, exporter)
}

func exportBatch(w io.Writer, batch domain.BatchResult, exporter ports.Exporter) error {
	if err := exporter.Export(w, batch); err != nil {
		return fmt.Errorf("export %s: %w", exporter.Format(), err)
	}
	return nil
}
