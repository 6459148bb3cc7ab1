// Package jobmgr runs named background jobs with cancellation and keeps
// track of the ones still running. A name can only run once at a time.
//
//	jm := jobmgr.NewManager(func(msg string) { log.Println("[DEBUG]", msg) })
//	err := jm.StartAsync(ctx, "sync:1234", func(ctx context.Context) error {
//	    return syncCommands(ctx, "1234")
//	})
//	...
//	jm.StopAll()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRunning is returned by StartAsync when the name is taken.
var ErrRunning = errors.New("job already running")

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StatusReporter receives lifecycle events:
//
//	running:sync:1234
//	error:sync:1234:list commands: 401 Unauthorized
//	done:sync:1234
type StatusReporter func(string)

// Manager is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	Reporter StatusReporter
}

// NewManager creates a Manager. reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		Reporter: reporter,
	}
}

// StartAsync runs runner in its own goroutine with a context derived from
// parent. The job is forgotten once runner returns.
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrRunning, name)
	}
	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.mu.Unlock()

	go func() {
		defer close(j.done)
		defer cancel()

		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		// Stop may already have made room for a newer job of the same name
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels the job called name without waiting for it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %s not running", name)
	}
	j.cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every job and waits for them to return.
func (m *Manager) StopAll() {
	m.mu.Lock()
	jobs := make([]*job, 0, len(m.jobs))
	for name, j := range m.jobs {
		j.cancel()
		jobs = append(jobs, j)
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	for _, j := range jobs {
		<-j.done
	}
}

// List returns the running job names, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status summarizes the running jobs, "No jobs are running." when idle.
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
