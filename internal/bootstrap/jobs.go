package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/Underworld_Go/internal/config"
	"github.com/osse101/Underworld_Go/internal/eventlog"
	"github.com/osse101/Underworld_Go/internal/scheduler"
	"github.com/osse101/Underworld_Go/internal/worker"
)

// BatchFuncs names every periodic batch. journal may be nil, which leaves out the cleanup.
func BatchFuncs(svc *Services, journal eventlog.Service, retention time.Duration) map[string]worker.CountFunc {
	funcs := map[string]worker.CountFunc{
		JobPropertyIncome: svc.Economy.CollectPropertyIncome,
		JobDividends:      svc.Economy.PayDividends,
		JobRegeneration:   svc.Characters.Regenerate,
	}
	if journal != nil {
		funcs[JobJournalCleanup] = func(ctx context.Context) (int, error) {
			n, err := journal.CleanupOldEvents(ctx, retention)
			return int(n), err
		}
	}
	return funcs
}

// ScheduleJobs registers each batch under its cron spec. A blank spec leaves that job unscheduled.
func ScheduleJobs(sched *scheduler.Scheduler, specs config.ScheduleConfig, funcs map[string]worker.CountFunc, journal eventlog.Service, retention time.Duration) error {
	entries := []struct {
		name string
		spec string
		job  worker.Job
	}{
		{JobPropertyIncome, specs.PropertyIncome, batchJob(funcs, JobPropertyIncome)},
		{JobDividends, specs.Dividends, batchJob(funcs, JobDividends)},
		{JobRegeneration, specs.Regeneration, batchJob(funcs, JobRegeneration)},
	}
	if journal != nil {
		entries = append(entries, struct {
			name string
			spec string
			job  worker.Job
		}{JobJournalCleanup, specs.JournalCleanup, eventlog.NewCleanupJob(journal, retention)})
	}

	for _, e := range entries {
		if e.spec == "" || e.job == nil {
			continue
		}
		if err := sched.Schedule(e.name, e.spec, e.job); err != nil {
			return fmt.Errorf("%s %s: %w", ErrMsgFailedScheduleJob, e.name, err)
		}
	}
	return nil
}

func batchJob(funcs map[string]worker.CountFunc, name string) worker.Job {
	fn, ok := funcs[name]
	if !ok {
		return nil
	}
	return worker.NewBatchJob(name, fn)
}
