package worker

import (
	"context"
	"time"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/rs/zerolog"
)

// AutoAssignWorker periodically sweeps active auto-assign exam schedules and
// fills their remaining seats from the verified applicant pool in FIFO order.
// Enrollment schedules are filled synchronously at creation time; exams are
// filled here because verification trickles in continuously.
type AutoAssignWorker struct {
	scheduleRepo *repository.ScheduleRepository
	assignments  *service.AssignmentService
	interval     time.Duration
	log          zerolog.Logger
}

// NewAutoAssignWorker creates a new AutoAssignWorker.
func NewAutoAssignWorker(
	scheduleRepo *repository.ScheduleRepository,
	assignments *service.AssignmentService,
	interval time.Duration,
	log zerolog.Logger,
) *AutoAssignWorker {
	return &AutoAssignWorker{
		scheduleRepo: scheduleRepo,
		assignments:  assignments,
		interval:     interval,
		log:          log.With().Str("component", "auto_assign_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled. One sweep runs
// immediately at startup.
func (w *AutoAssignWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("AutoAssignWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("AutoAssignWorker shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AutoAssignWorker) sweep(ctx context.Context) {
	earliest := service.EarliestAssignableDate(time.Now())
	schedules, err := w.scheduleRepo.ListAutoAssignable(ctx, model.ScheduleKindExam, earliest)
	if err != nil {
		w.log.Error().Err(err).Msg("List auto-assignable schedules failed")
		return
	}

	for _, schedule := range schedules {
		result, err := w.assignments.AutoAssign(ctx, schedule.ID)
		if err != nil {
			w.log.Error().Err(err).Str("schedule_id", schedule.ID.String()).Msg("Auto-assign failed")
			continue
		}
		if result.Assigned > 0 || len(result.Skipped) > 0 {
			w.log.Info().
				Str("schedule_id", schedule.ID.String()).
				Int("assigned", result.Assigned).
				Int("skipped", len(result.Skipped)).
				Msg("Auto-assign sweep")
		}
	}
}
