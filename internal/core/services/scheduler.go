package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is the number of results kept per task.
const historyRetention = 100

// Scheduler manages background task execution.
// It is a pure core service with no external control API.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	indexer  driving.Indexer
	importer driving.JournalImporter
	now      func() time.Time

	mu      sync.Mutex
	running bool
	active  map[string]bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
// The importer is optional (can be nil).
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	indexer driving.Indexer,
	importer driving.JournalImporter,
) *Scheduler {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Minute
	}
	return &Scheduler{
		config:   config,
		store:    store,
		indexer:  indexer,
		importer: importer,
		now:      time.Now,
		active:   make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.SyncTasks(ctx); err != nil {
		log.Printf("scheduler: failed to initialise tasks: %v", err)
	}

	if !s.config.Enabled {
		<-s.waitForStop(ctx)
		return ctx.Err()
	}
	return s.run(ctx)
}

func (s *Scheduler) waitForStop(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-s.stopCh:
		}
	}()
	return done
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// SyncTasks ensures all configured tasks exist in the store with their
// configured interval and enabled state. Start calls it; RunNow needs it
// when the loop has never run.
func (s *Scheduler) SyncTasks(ctx context.Context) error {
	if err := s.ensureTask(ctx, domain.TaskIDIndexPass, "Index Pass",
		s.config.GetTaskConfig(domain.TaskIDIndexPass)); err != nil {
		return err
	}

	importCfg := s.config.GetTaskConfig(domain.TaskIDJournalImport)
	if s.importer == nil {
		importCfg.Enabled = false
	}
	if err := s.ensureTask(ctx, domain.TaskIDJournalImport, "Journal Import", importCfg); err != nil {
		return err
	}

	return s.dropUnknownTasks(ctx)
}

// dropUnknownTasks deletes stored tasks this scheduler has no runner for.
func (s *Scheduler) dropUnknownTasks(ctx context.Context) error {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		switch task.ID {
		case domain.TaskIDIndexPass, domain.TaskIDJournalImport:
			continue
		}
		if err := s.store.DeleteTask(ctx, task.ID); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		if !cfg.Enabled {
			return nil
		}
		// Imports run on the first tick; index passes wait one interval.
		next := s.now().Add(cfg.Interval)
		if id == domain.TaskIDJournalImport {
			next = s.now()
		}
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  next,
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = s.now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// claim marks a task active. It returns false if a previous run is still going.
func (s *Scheduler) claim(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[taskID] {
		return false
	}
	s.active[taskID] = true
	return true
}

func (s *Scheduler) release(taskID string) {
	s.mu.Lock()
	delete(s.active, taskID)
	s.mu.Unlock()
}

// runTask executes a single task in the background.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	if !s.claim(task.ID) {
		log.Printf("scheduler: %s still running, skipping", task.ID)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(task.ID)
		s.execute(ctx, task)
	}()
}

// RunNow executes a task synchronously and records its result.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if !s.claim(taskID) {
		return nil, domain.ErrTaskRunning
	}
	defer s.release(taskID)
	return s.execute(ctx, task), nil
}

func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) *domain.TaskResult {
	result := &domain.TaskResult{
		TaskID:    task.ID,
		StartedAt: s.now(),
	}

	var err error
	switch task.ID {
	case domain.TaskIDIndexPass:
		result.ItemsProcessed, err = s.runIndexPass(ctx)
	case domain.TaskIDJournalImport:
		result.ItemsProcessed, err = s.runJournalImport(ctx)
	default:
		log.Printf("scheduler: unknown task ID: %s", task.ID)
		return result
	}

	result.EndedAt = s.now()
	if err != nil {
		result.Error = err.Error()
		task.LastError = err.Error()
		log.Printf("scheduler: %s failed: %v", task.ID, err)
	} else {
		result.Success = true
		task.LastError = ""
		task.LastSuccess = result.EndedAt
	}

	task.LastRun = result.StartedAt
	task.NextRun = result.EndedAt.Add(task.Interval)

	if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
		log.Printf("scheduler: failed to save task %s: %v", task.ID, saveErr)
	}
	if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
		log.Printf("scheduler: failed to record result for %s: %v", task.ID, recordErr)
	}
	if pruneErr := s.store.PruneHistory(ctx, historyRetention); pruneErr != nil {
		log.Printf("scheduler: failed to prune history: %v", pruneErr)
	}
	return result
}

func (s *Scheduler) runIndexPass(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, nil
	}
	report, err := s.indexer.RunIndexPass(ctx)
	if report == nil {
		return 0, err
	}
	return report.Indexed + report.Cleared, err
}

func (s *Scheduler) runJournalImport(ctx context.Context) (int, error) {
	if s.importer == nil {
		return 0, nil
	}
	return s.importer.Import(ctx)
}
