package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type sweeperStorage interface {
	DeleteExpiredAuthSessions(time.Time) (int, error)
}

type sweeperLog interface {
	Info(string, ...zapcore.Field)
}

// sweeper drops expired login sessions on a timer so the sessions table
// does not grow without bound.
type sweeper struct {
	storage    sweeperStorage
	log        sweeperLog
	interval   time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

func newSweeper(storage sweeperStorage, log sweeperLog, interval func() string) *sweeper {
	dur, err := time.ParseDuration(interval())
	if err != nil {
		log.Info("cannot parse sweep interval option: ", zap.Error(err))

		dur = time.Hour
	}

	return &sweeper{
		storage:  storage,
		log:      log,
		interval: dur,
	}
}

func (s *sweeper) Start() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	s.cancelFunc = cancelFunc
	s.wg.Add(1)

	go s.run(ctx)
}

func (s *sweeper) Stop() {
	if s.cancelFunc == nil {
		return
	}

	s.cancelFunc()
	s.wg.Wait()
}

func (s *sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.storage.DeleteExpiredAuthSessions(time.Now())
			if err != nil {
				s.log.Info("error sweeping expired sessions: ", zap.Error(err))
				continue
			}
			if count > 0 {
				s.log.Info("expired sessions swept", zap.Int("count", count))
			}
		}
	}
}
