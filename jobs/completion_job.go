package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/anjiri1684/tutor_marketplace/services"
)

// completionGrace is how long after a session's end time the sweep waits
// before auto-completing, so participants can complete manually with notes.
const completionGrace = time.Hour

// CompletionSweep auto-completes scheduled sessions whose end time has
// elapsed. Either participant marking the session complete first wins; the
// sweep only picks up what was left behind.
type CompletionSweep struct {
	lifecycle *services.BookingLifecycle
	logger    *zap.Logger
}

func NewCompletionSweep(lifecycle *services.BookingLifecycle, logger *zap.Logger) *CompletionSweep {
	return &CompletionSweep{lifecycle: lifecycle, logger: logger}
}

// Run executes one sweep. Registered with cron in main.
func (j *CompletionSweep) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	completed, err := j.lifecycle.SweepCompletions(ctx, completionGrace)
	if err != nil {
		j.logger.Error("completion sweep failed", zap.Error(err), zap.Int("completed", completed))
		return
	}
	if completed > 0 {
		j.logger.Info("completion sweep finished", zap.Int("completed", completed))
	}
}
