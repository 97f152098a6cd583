package services

import (
	"context"
	"time"

	"shelfwise/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SnapshotService writes periodic state snapshots on a cron schedule, as a
// safety net on top of the save-after-mutation default.
type SnapshotService struct {
	library *Library
	cron    *cron.Cron
	log     *logger.Logger
}

// NewSnapshotService schedules snapshot saves according to spec
// (standard cron syntax, e.g. "*/5 * * * *")
func NewSnapshotService(library *Library, spec string, log *logger.Logger) (*SnapshotService, error) {
	if log == nil {
		log = logger.NewNop()
	}

	s := &SnapshotService{
		library: library,
		cron:    cron.New(),
		log:     log,
	}

	_, err := s.cron.AddFunc(spec, s.runSnapshot)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron scheduler
func (s *SnapshotService) Start() {
	s.cron.Start()
	s.log.Info("snapshot service started")
}

// Stop stops the scheduler and waits for a running snapshot to finish
func (s *SnapshotService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("snapshot service stopped")
}

func (s *SnapshotService) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.library.SaveNow(ctx); err != nil {
		s.log.Error("periodic snapshot failed", "error", err)
		return
	}
	s.log.Debug("periodic snapshot written")
}
