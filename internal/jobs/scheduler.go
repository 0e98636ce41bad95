package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule расписания задач в формате cron с секундами
type Schedule struct {
	ReconcileConsoles   string
	SendReturnReminders string
	SweepExpiredHolds   string
}

// Scheduler запускает задачи Runner по расписанию
type Scheduler struct {
	cron   *cron.Cron
	logger Logger
}

// NewScheduler регистрирует задачи; пустое расписание отключает задачу
// Паника в задаче логируется, следующий запуск пропускается, пока идет предыдущий
func NewScheduler(runner *Runner, schedule Schedule, logger Logger) (*Scheduler, error) {
	cronLog := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	jobs := []struct {
		name string
		schedule string
		fn   func()
	}{
		{JobReconcileConsoles, schedule.ReconcileConsoles, runner.ReconcileConsoles},
		{JobSendReturnReminders, schedule.SendReturnReminders, runner.SendReturnReminders},
		{JobSweepExpiredHolds, schedule.SweepExpiredHolds, runner.SweepExpiredHolds},
	}
	for _, job := range jobs {
		if job.schedule == "" {
			logger.Warn("Job %s disabled: empty schedule", job.name)
			continue
		}
		if _, err := c.AddFunc(job.schedule, job.fn); err != nil {
			return nil, fmt.Errorf("register job %s: %w", job.name, err)
		}
		logger.Info("Job %s registered: schedule=%q", job.name, job.schedule)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started: jobs=%d", len(s.cron.Entries()))
}

// Stop останавливает планировщик и ждет завершения запущенных задач
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

// cronLogger адаптер cron.Logger к логгеру приложения
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
