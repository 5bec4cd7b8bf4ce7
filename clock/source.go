// Package clock turns wall-clock time into face.Time events on a cron schedule.
package clock

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"handdrawn/face"
)

// DefaultSchedule fires at every minute boundary.
const DefaultSchedule = "* * * * *"

// Source publishes the current time in a fixed location each time its schedule
// fires. It never calls into the face; consumers drain Events on their own loop.
type Source struct {
	clk      clockwork.Clock
	loc      *time.Location
	spec     string
	schedule cron.Schedule
	cron     *cron.Cron
	events   chan face.Time
}

// New returns a stopped Source. A nil clk uses the real clock, a nil loc uses
// time.Local and an empty schedule uses DefaultSchedule.
func New(clk clockwork.Clock, loc *time.Location, schedule string) (*Source, error) {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("clock: schedule %q: %w", schedule, err)
	}

	s := &Source{
		clk:      clk,
		loc:      loc,
		spec:     schedule,
		schedule: sched,
		cron:     cron.New(cron.WithLocation(loc)),
		events:   make(chan face.Time, 1),
	}
	s.cron.Schedule(sched, cron.FuncJob(s.fire))
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Source) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for a running job to finish.
func (s *Source) Stop() {
	<-s.cron.Stop().Done()
}

// Events delivers scheduled times. Only the latest undelivered value is kept.
func (s *Source) Events() <-chan face.Time { return s.events }

// Now returns the current hour and minute in the source's location.
func (s *Source) Now() face.Time {
	return face.TimeOf(s.clk.Now().In(s.loc))
}

// Next returns the first scheduled fire time after t.
func (s *Source) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.loc))
}

// NextFire returns the next scheduled fire time from now.
func (s *Source) NextFire() time.Time {
	return s.Next(s.clk.Now())
}

func (s *Source) Location() *time.Location { return s.loc }
func (s *Source) Schedule() string         { return s.spec }

// Trigger publishes the current time immediately, outside the schedule.
func (s *Source) Trigger() { s.fire() }

func (s *Source) fire() {
	s.publish(s.Now())
}

func (s *Source) publish(t face.Time) {
	for {
		select {
		case s.events <- t:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}
