package ports

import (
	"context"
	"io"
	"time"

	"StartupPredictor/internal/domain"
)

// Predictor submits feature vectors and CSV batches to the prediction service.
type Predictor interface {
	Predict(ctx context.Context, vector domain.FeatureVector) (domain.PredictionResult, error)
	PredictBatch(ctx context.Context, fileName string, file io.Reader) (domain.BatchResult, error)
}

// HistoryRepository persists submission audit records.
type HistoryRepository interface {
	Record(ctx context.Context, record domain.HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
}

// HistoryPruner deletes audit records created before a cutoff.
type HistoryPruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler drives recurring jobs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Exporter serialises a batch result for download.
type Exporter interface {
	Format() string
	ContentType() string
	Export(w io.Writer, batch domain.BatchResult) error
}
