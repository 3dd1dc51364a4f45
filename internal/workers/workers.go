// Package workers runs the application's background workers. Each worker
// owns its own goroutine; Run returns immediately so startup is not blocked.
package workers

// Worker is a background task started once at application startup.
// Implementations must return from Run quickly, spawning goroutines
// internally for any long-running work.
type Worker interface {
	Run()
}

// Workers aggregates every background worker of the application.
type Workers struct {
	workers []Worker
}

// NewWorkers bundles the given workers for a single Run call at startup.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts all registered workers.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
