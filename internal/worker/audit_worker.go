package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
)

// AuditWorker persists queued audit entries to the logs table.
type AuditWorker struct {
	repo repository.LogRepository
}

func NewAuditWorker(repo repository.LogRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

func (w *AuditWorker) Process(ctx context.Context, job *Job) error {
	var payload AuditPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return err
	}
	entry := &model.AuditLog{
		Timestamp:  job.Enqueued,
		Message:    payload.Message,
		ExecutedBy: payload.ExecutedBy,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return w.repo.Create(ctx, entry)
}
