package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/ports"
)

const defaultSessionTTL = 30 * time.Minute

// ServiceDeps wires the driven adapters into the submission service.
type ServiceDeps struct {
	Predictor ports.Predictor
	History   ports.HistoryRepository
	Logger    *slog.Logger
	Now       func() time.Time
	// SessionTTL bounds how long an idle client keeps its guards and batch.
	SessionTTL time.Duration
}

// Service implements the manual and batch submission flows. Per-client state
// lives in sessions; the Submit and Export methods on Service act on a
// process-local session used by the command line.
type Service struct {
	predictor  ports.Predictor
	history    ports.HistoryRepository
	logger     *slog.Logger
	now        func() time.Time
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	local    *Session
}

// NewService constructs the submission service.
func NewService(deps ServiceDeps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &Service{
		predictor:  deps.Predictor,
		history:    deps.History,
		logger:     deps.Logger,
		now:        now,
		sessionTTL: ttl,
		sessions:   map[string]*Session{},
	}
	s.local = newSession(s, now())
	return s
}

// Session returns the state of the client identified by key, creating it on
// first use. Sessions idle for longer than the TTL are dropped. An empty key
// selects the process-local session.
func (s *Service) Session(key string) *Session {
	if key == "" {
		return s.local
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, sess := range s.sessions {
		if sess.expired(now, s.sessionTTL) {
			delete(s.sessions, k)
		}
	}

	sess, ok := s.sessions[key]
	if !ok {
		sess = newSession(s, now)
		s.sessions[key] = sess
	}
	sess.touch(now)
	return sess
}

// SubmitManual submits on the process-local session.
func (s *Service) SubmitManual(ctx context.Context, input domain.ManualInput) (ManualOutcome, error) {
	return s.local.SubmitManual(ctx, input)
}

// SubmitBatch submits on the process-local session.
func (s *Service) SubmitBatch(ctx context.Context, fileName string, file io.Reader) (domain.BatchResult, error) {
	return s.local.SubmitBatch(ctx, fileName, file)
}

// LastBatch returns the process-local session's last batch.
func (s *Service) LastBatch() (domain.BatchResult, error) {
	return s.local.LastBatch()
}

// Export writes the process-local session's last batch.
func (s *Service) Export(w io.Writer, exporter ports.Exporter) error {
	return s.local.Export(w, exporter)
}

// HistoryEnabled reports whether submissions are being recorded.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// History lists recent submissions; it is empty when no repository is wired.
func (s *Service) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

func (s *Service) record(ctx context.Context, kind domain.SubmissionKind, request, outcome string, submitErr error) {
	if s.history == nil {
		return
	}

	rec := domain.HistoryRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Request:   request,
		Outcome:   outcome,
		CreatedAt: s.now().UTC(),
	}
	if submitErr != nil {
		rec.Error = submitErr.Error()
	}

	// History is best effort; a cancelled request must still be audited.
	if err := s.history.Record(context.WithoutCancel(ctx), rec); err != nil && s.logger != nil {
		s.logger.Warn("record history", "kind", kind, "error", err)
	}
}

func (s *Service) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func encodeVector(v domain.FeatureVector) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
