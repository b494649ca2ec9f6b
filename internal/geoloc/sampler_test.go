package geoloc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fenixcs/fieldtracker/internal/models"
)

func TestReporter(t *testing.T) {
	r := NewReporter()

	t.Run("unknown employee yields an error-shaped sample", func(t *testing.T) {
		sample := r.SamplerFor("e1").Sample()

		assert.False(t, sample.Valid())
		assert.Equal(t, ErrLocationUnavailable, sample.Err)
		assert.False(t, sample.Timestamp.IsZero())
	})

	t.Run("last reported fix wins", func(t *testing.T) {
		r.Report("e1", models.LocationSample{Latitude: 41.99, Longitude: 21.43})
		r.Report("e1", models.LocationSample{Latitude: 42.01, Longitude: 20.97})

		sample, ok := r.Last("e1")
		assert.True(t, ok)
		assert.Equal(t, 42.01, sample.Latitude)

		assert.Equal(t, sample, r.SamplerFor("e1").Sample())
	})

	t.Run("error-shaped reports are kept as-is", func(t *testing.T) {
		r.Report("e2", ErrorSample(time.Now()))

		sample, ok := r.Last("e2")
		assert.True(t, ok)
		assert.False(t, sample.Valid())
	})
}

func TestWatch(t *testing.T) {
	var mx sync.Mutex
	var got []models.LocationSample

	sampler := SamplerFunc(func() models.LocationSample {
		return models.LocationSample{Latitude: 1, Longitude: 2, Timestamp: time.Now()}
	})

	cancel := Watch(sampler, 5*time.Millisecond, func(s models.LocationSample) {
		mx.Lock()
		got = append(got, s)
		mx.Unlock()
	})

	assert.Eventually(t, func() bool {
		mx.Lock()
		defer mx.Unlock()
		return len(got) >= 2
	}, time.Second, time.Millisecond)

	cancel()

	// let any in-flight tick land before counting
	time.Sleep(20 * time.Millisecond)

	mx.Lock()
	count := len(got)
	mx.Unlock()

	time.Sleep(20 * time.Millisecond)

	mx.Lock()
	defer mx.Unlock()
	assert.Equal(t, count, len(got))
}
