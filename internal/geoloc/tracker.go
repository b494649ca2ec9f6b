package geoloc

import (
	"context"
	"sync"
	"time"

	"github.com/fenixcs/fieldtracker/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type Storage interface {
	GetWorkSessions(models.SessionFilter, models.Pagination) ([]models.WorkSession, error)
}

// Appender extends a session's location history and persists the change.
type Appender interface {
	AppendLocation(*models.WorkSession, models.LocationSample) error
}

// Tracker is the passive sampling loop: while a session is in status
// working it appends one sample per interval to the session's location
// history. Sessions on break are skipped, so sampling pauses implicitly.
type Tracker struct {
	storage    Storage
	appender   Appender
	reporter   *Reporter
	log        Log
	interval   time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

func NewTracker(storage Storage, appender Appender, reporter *Reporter,
	log Log, interval func() string,
) *Tracker {
	dur, err := time.ParseDuration(interval())
	if err != nil {
		log.Info("cannot parse sample interval option: ", zap.Error(err))

		dur = 10 * time.Minute
	}

	return &Tracker{
		storage:  storage,
		appender: appender,
		reporter: reporter,
		log:      log,
		interval: dur,
	}
}

func (t *Tracker) Start() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	t.cancelFunc = cancelFunc
	t.wg.Add(1)

	go t.run(ctx)
}

func (t *Tracker) Stop() {
	if t.cancelFunc == nil {
		return
	}

	t.cancelFunc()
	t.wg.Wait()
}

func (t *Tracker) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sampleActiveSessions()
		}
	}
}

func (t *Tracker) sampleActiveSessions() {
	status := string(models.StatusWorking)
	sessions, err := t.storage.GetWorkSessions(models.SessionFilter{Status: &status}, models.Pagination{})
	if err != nil {
		t.log.Info("error listing working sessions: ", zap.Error(err))
		return
	}

	for i := range sessions {
		session := sessions[i]
		sample := t.reporter.SamplerFor(session.EmployeeID).Sample()

		if err := t.appender.AppendLocation(&session, sample); err != nil {
			t.log.Info("error appending location sample: ",
				zap.String("session", session.ID), zap.Error(err))
		}
	}
}
