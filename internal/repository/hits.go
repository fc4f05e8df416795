package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/casenotify/casenotify/internal/batch"
	"github.com/casenotify/casenotify/internal/database"
)

// hitChunkSize bounds the statement size when flushing access logs.
const hitChunkSize = 100

// Hit is one recorded access event. All columns in log_hits are
// free-form strings; the repository does the stringification.
type Hit struct {
	Time       time.Time
	Path       string
	Method     string
	StatusCode int
	Phone      string
	Body       string
	Action     string
}

// HitRepository persists access events into log_hits through the
// batch writer, so a flush of buffered hits lands atomically.
type HitRepository struct {
	writer     *batch.Writer
	timestamps *database.TimestampFormatter
}

// NewHitRepository constructs a HitRepository.
func NewHitRepository(writer *batch.Writer, timestamps *database.TimestampFormatter) *HitRepository {
	return &HitRepository{writer: writer, timestamps: timestamps}
}

// Record writes hits in one transactional batch. An empty slice is a
// no-op.
func (r *HitRepository) Record(ctx context.Context, hits []Hit) error {
	rows := make([]batch.Row, len(hits))
	for i, hit := range hits {
		rows[i] = batch.Row{
			"time":        r.timestamps.Format(hit.Time),
			"path":        hit.Path,
			"method":      hit.Method,
			"status_code": strconv.Itoa(hit.StatusCode),
			"phone":       hit.Phone,
			"body":        hit.Body,
			"action":      hit.Action,
		}
	}
	return r.writer.Insert(ctx, "log_hits", rows, hitChunkSize)
}
