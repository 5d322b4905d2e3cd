package reminder

import (
	"clanwatch/internal/providers"
	"clanwatch/internal/reminder/interfaces"
	"clanwatch/internal/structures"
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Ticker interface {
	Tick(ctx context.Context, now time.Time) TickResult
}

// cronLogger routes cron's own messages into the reminder log.
type cronLogger struct {
	logger providers.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugf(providers.TypeReminder, "cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorf(providers.TypeReminder, "cron: %s: %s %v", msg, err, keysAndValues)
}

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	reminder Ticker
	cron     *cron.Cron
	delay    *time.Timer
	ctx      context.Context
	cancel   context.CancelFunc
	first    sync.WaitGroup
	mu       sync.Mutex
}

func (s *Scheduler) interval() time.Duration {
	return time.Duration(s.config.Reminder.IntervalMinutes) * time.Minute
}

func (s *Scheduler) run() {
	// A tick never outlives its interval.
	ctx, cancel := context.WithTimeout(s.ctx, s.interval())
	defer cancel()
	result := s.reminder.Tick(ctx, time.Now().UTC())
	if result.Skipped != "" {
		s.logger.Debugf(providers.TypeReminder, "Reminder tick skipped: %s", result.Skipped)
	}
}

// Init schedules the first tick after the initial delay and every interval
// after that. Overlapping ticks are skipped.
func (s *Scheduler) Init() {
	if !s.config.Reminder.Enabled {
		s.logger.Infof(providers.TypeReminder, "War reminders disabled")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(context.Background())
	log := cronLogger{logger: s.logger}
	// The first tick and the periodic ones share one wrapped job so they never overlap.
	job := cron.NewChain(cron.Recover(log), cron.SkipIfStillRunning(log)).Then(cron.FuncJob(s.run))
	s.cron = cron.New(cron.WithLogger(log))
	s.cron.Schedule(cron.Every(s.interval()), job)

	delay := time.Duration(s.config.Reminder.InitialDelaySeconds) * time.Second
	s.first.Add(1)
	s.delay = time.AfterFunc(delay, func() {
		defer s.first.Done()
		s.mu.Lock()
		if s.ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.cron.Start()
		s.mu.Unlock()
		job.Run()
	})
	s.logger.Infof(providers.TypeReminder, "War reminders every %s, starting in %s", s.interval(), delay)
}

// Stop cancels the running tick and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cron == nil {
		s.mu.Unlock()
		return
	}
	if s.delay.Stop() {
		s.first.Done()
	}
	s.cancel()
	done := s.cron.Stop()
	s.mu.Unlock()
	<-done.Done()
	s.first.Wait()
}

func NewScheduler(config *structures.Config, logger providers.Logger, reminder Ticker) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		reminder: reminder,
	}
}
