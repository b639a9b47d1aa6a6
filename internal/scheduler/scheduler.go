package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/controller"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/ui"
)

// Scheduler advances every controller in sequence, once per interval.
// Controllers are never advanced concurrently.
type Scheduler struct {
	controllers []*controller.Karlson
	interval    time.Duration
	store       *StatusStore

	updates chan PolicyLookup

	// EmptyHint is logged in every cycle when there is nothing to control
	EmptyHint string
}

func NewScheduler(controllers []*controller.Karlson, interval time.Duration, store *StatusStore) *Scheduler {
	s := &Scheduler{
		controllers: controllers,
		interval:    interval,
		store:       store,
		updates:     make(chan PolicyLookup, 1),
	}
	for _, k := range controllers {
		store.Set(k.Status())
	}
	return s
}

func (s *Scheduler) Controllers() []*controller.Karlson {
	return s.controllers
}

// RunCycle advances every controller once and publishes its status.
// Errors are logged and never stop the cycle.
func (s *Scheduler) RunCycle() {
	for _, k := range s.controllers {
		previous, _ := s.store.Get(k.Device().Key())

		err := k.Advance()
		if err != nil {
			if errors.Is(err, device.ErrResolutionFailure) {
				ui.Debug("Skipping %s: %v", k.Device().Key(), err)
			} else {
				ui.Error("%v", err)
			}
		}

		status := k.Status()
		if status.Critical && !previous.Critical {
			ui.Warning("%s reached a critical temperature of %dC", status.Key, status.InstantMax)
			ui.NotifyWarn("karlson", fmt.Sprintf("%s (%s) reached %dC, fan forced to %d%%",
				status.Key, status.Name, status.InstantMax, status.Level))
		}
		s.store.Set(status)
	}
}

// PolicyLookup returns the policy for a device, or false if the device should keep its current one
type PolicyLookup func(desc device.Descriptor) (configuration.PolicyConfig, bool)

// Reconfigure queues a policy update, which is applied by Run before the next cycle.
// It returns false if another update is still pending.
func (s *Scheduler) Reconfigure(lookup PolicyLookup) bool {
	select {
	case s.updates <- lookup:
		return true
	default:
		return false
	}
}

func (s *Scheduler) applyPolicies(lookup PolicyLookup) {
	for _, k := range s.controllers {
		policy, ok := lookup(k.Device())
		if !ok {
			continue
		}
		k.Reconfigure(policy)
		ui.Info("Reconfigured %s: %s", k.Device().Key(), k.Policy())
	}
}

// Run executes cycles until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.RunCycle()

		wait := s.interval
		if len(s.controllers) <= 0 {
			ui.Warning("Nothing to control. %s", s.EmptyHint)
			wait = 2 * s.interval
		}

		select {
		case <-ctx.Done():
			return nil
		case lookup := <-s.updates:
			s.applyPolicies(lookup)
		case <-time.After(wait):
		}
	}
}
