package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
	"github.com/GiacomoGuaresi/LiteERP/internal/worker"
)

// LogService records audit entries. Writes go through the Redis queue so a
// slow log insert never extends request latency; listing reads the table
// directly.
type LogService interface {
	// Record enqueues an audit entry — best effort, failures only log.
	Record(ctx context.Context, message string, executedBy string)
	List(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type logService struct {
	repo       repository.LogRepository
	dispatcher *worker.Dispatcher
}

func NewLogService(repo repository.LogRepository, dispatcher *worker.Dispatcher) LogService {
	return &logService{repo: repo, dispatcher: dispatcher}
}

func (s *logService) Record(ctx context.Context, message string, executedBy string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.AuditPayload{Message: message}
	if executedBy != "" {
		payload.ExecutedBy = &executedBy
	}
	if err := s.dispatcher.EnqueueAudit(ctx, payload); err != nil {
		log.Warn().Err(err).Str("message", message).Msg("failed to enqueue audit entry")
	}
}

func (s *logService) List(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return s.repo.List(ctx, limit)
}
