package geoloc

import (
	"sync"
	"time"

	"github.com/fenixcs/fieldtracker/internal/models"
)

// ErrLocationUnavailable is recorded in place of coordinates when no
// position fix can be produced. Callers see it via LocationSample.Err.
const ErrLocationUnavailable = "Location not available"

// Sampler produces position fixes for one subject. Implementations never
// fail: on error they return a sample with the Err field set.
type Sampler interface {
	Sample() models.LocationSample
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() models.LocationSample

func (f SamplerFunc) Sample() models.LocationSample {
	return f()
}

// ErrorSample builds an error-shaped sample stamped with the given time.
func ErrorSample(at time.Time) models.LocationSample {
	return models.LocationSample{Timestamp: at, Err: ErrLocationUnavailable}
}

// Watch polls the sampler on a fixed interval and hands every sample,
// error-shaped ones included, to onUpdate. The returned function cancels
// the watch.
func Watch(s Sampler, interval time.Duration, onUpdate func(models.LocationSample)) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				onUpdate(s.Sample())
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

// Reporter keeps the last position reported by each employee's device.
// Field clients push fixes over HTTP; the tracker reads them back when it
// samples active sessions.
type Reporter struct {
	mx   sync.RWMutex
	last map[string]models.LocationSample
	now  func() time.Time
}

func NewReporter() *Reporter {
	return &Reporter{
		last: make(map[string]models.LocationSample),
		now:  time.Now,
	}
}

// Report stores the most recent sample for an employee.
func (r *Reporter) Report(employeeID string, sample models.LocationSample) {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.last[employeeID] = sample
}

// Last returns the most recent sample for an employee, if any.
func (r *Reporter) Last(employeeID string) (models.LocationSample, bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	v, ok := r.last[employeeID]
	return v, ok
}

// SamplerFor returns a Sampler bound to one employee. When the employee
// has never reported a position it yields an error-shaped sample.
func (r *Reporter) SamplerFor(employeeID string) Sampler {
	return SamplerFunc(func() models.LocationSample {
		if v, ok := r.Last(employeeID); ok {
			return v
		}

		return ErrorSample(r.now())
	})
}
