package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GiacomoGuaresi/LiteERP/internal/infra"
)

// EmailWorker sends order-completed notifications. A missing recipient
// configuration silently drops the job — notifications are opt-in.
type EmailWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewEmailWorker(mailer *infra.Mailer, to string) *EmailWorker {
	return &EmailWorker{mailer: mailer, to: to}
}

func (w *EmailWorker) Process(_ context.Context, job *Job) error {
	if w.to == "" {
		return nil
	}
	var payload EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return err
	}
	if err := w.mailer.Send(w.to, payload.Subject, payload.Body, ""); err != nil {
		return err
	}
	log.Info().Uint("order_id", payload.OrderID).Msg("completion notification sent")
	return nil
}
