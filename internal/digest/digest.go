// Package digest runs the scheduled open-task reminder emails.
package digest

import (
	"fmt"

	"github.com/phase2/todo-api/internal/models"
	"github.com/phase2/todo-api/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store lists who gets a digest and what goes into it
type Store interface {
	ListOpenTaskOwners() ([]*models.User, error)
	ListOpenTasks(userID string) ([]*models.Task, error)
}

// Scheduler mails every user with open tasks on a cron schedule
type Scheduler struct {
	store  Store
	sender *email.Sender
	spec   string
	cron   *cron.Cron
	log    *logrus.Logger
}

// NewScheduler creates a stopped scheduler
func NewScheduler(store Store, sender *email.Sender, spec string, log *logrus.Logger) *Scheduler {
	return &Scheduler{store: store, sender: sender, spec: spec, log: log}
}

// Start registers the cron entry and begins running it
func (s *Scheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Digest scheduled: %s", s.spec)
	return nil
}

// Stop halts the schedule; a run already in flight finishes
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) run() {
	owners, err := s.store.ListOpenTaskOwners()
	if err != nil {
		s.log.Errorf("Digest run failed: %v", err)
		return
	}

	for _, owner := range owners {
		tasks, err := s.store.ListOpenTasks(owner.ID)
		if err != nil {
			s.log.Errorf("Failed to list open tasks for %s: %v", owner.Email, err)
			continue
		}
		if len(tasks) == 0 {
			continue
		}
		// Send errors are logged by the sender; one bad address must not
		// stop the rest of the run.
		_ = s.sender.SendOpenTaskDigest(owner, tasks)
	}
	s.log.Infof("Digest run complete: %d user(s)", len(owners))
}
