package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"GeoWatch/internal/checker"
	"GeoWatch/internal/config"
	"GeoWatch/pkg/uuidutil"
)

// Scheduler ведет по одному независимому таймеру на группу локаций и
// запускает циклы проверки для каждой пары (цель, группа).
//
// Дисциплина: не больше одного цикла в полете на пару. Срабатывание
// таймера при еще идущем цикле той же пары пропускается с предупреждением,
// а не ставится рядом — иначе интервал получает дублирующие строки.
type Scheduler struct {
	checker *checker.Service
	targets []config.TargetConfig
	groups  []config.GroupConfig
	fastest config.GroupConfig

	mu       sync.Mutex
	inflight map[string]bool

	wg     sync.WaitGroup
	logger *slog.Logger
}

func New(service *checker.Service, cfg *config.Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		checker:  service,
		targets:  cfg.Targets,
		groups:   cfg.Groups,
		fastest:  cfg.FastestGroup(),
		inflight: make(map[string]bool),
		logger:   logger,
	}
}

// Run блокирует до отмены контекста. Сначала холодный прогон самой быстрой
// группы, затем по горутине с тикером на каждую группу.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("starting scheduler",
		"targets", len(s.targets),
		"groups", len(s.groups),
		"fastest_group", s.fastest.Name,
	)

	s.fire(ctx, s.fastest)

	for _, group := range s.groups {
		s.wg.Add(1)
		go s.runGroup(ctx, group)
	}

	<-ctx.Done()
	s.logger.Info("scheduler stopping, waiting for in-flight cycles")
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runGroup(ctx context.Context, group config.GroupConfig) {
	defer s.wg.Done()

	ticker := time.NewTicker(group.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, group)
		}
	}
}

// fire запускает цикл по каждой цели; циклы fire-and-forget относительно
// таймера, медленная цель не задерживает чужие группы
func (s *Scheduler) fire(ctx context.Context, group config.GroupConfig) {
	for _, target := range s.targets {
		key := target.Domain + "/" + group.Name

		if !s.tryAcquire(key) {
			s.logger.Warn("previous cycle still in flight, skipping",
				"domain", target.Domain,
				"group", group.Name,
			)
			continue
		}

		s.wg.Add(1)
		go func(target config.TargetConfig) {
			defer s.wg.Done()
			defer s.release(key)

			cycleID := uuidutil.New()
			outcome := s.checker.RunCycle(ctx, cycleID, target, group)
			s.logger.Debug("cycle finished",
				"cycle_id", cycleID,
				"domain", target.Domain,
				"group", group.Name,
				"outcome", outcome,
			)
		}(target)
	}
}

func (s *Scheduler) tryAcquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *Scheduler) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
