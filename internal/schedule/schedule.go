package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a cron spec.
type Scheduler struct {
	cron *cron.Cron
	job  func()
}

// New validates spec and binds job to it. The job does not run until Start.
func New(spec string, job func()) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, job: job}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce triggers the job immediately, outside the schedule.
func (s *Scheduler) RunOnce() {
	s.job()
}
