package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type ShutdownManager struct {
	cancelFunc    context.CancelFunc
	shutdownTasks []func(context.Context) error
	timeout       time.Duration
	mu            sync.Mutex
}

// NewShutdownManager returns a context cancelled as soon as shutdown begins
func NewShutdownManager(ctx context.Context, timeout time.Duration) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(ctx)
	manager := &ShutdownManager{
		cancelFunc: cancel,
		timeout:    timeout,
	}
	return ctx, manager
}

// Register adds a task. Tasks run in reverse registration order.
func (sm *ShutdownManager) Register(task func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.shutdownTasks = append(sm.shutdownTasks, task)
}

// Wait blocks until SIGINT/SIGTERM or until ctx is done, then shuts down
func (sm *ShutdownManager) Wait(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Printf("[SHUTDOWN] Received signal: %v", sig)
	case <-ctx.Done():
		log.Println("[SHUTDOWN] Context cancelled")
	}
	sm.Shutdown()
}

// Shutdown cancels the root context and runs every task within the timeout
func (sm *ShutdownManager) Shutdown() {
	sm.cancelFunc()

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	for i := len(sm.shutdownTasks) - 1; i >= 0; i-- {
		if err := sm.shutdownTasks[i](ctx); err != nil {
			log.Printf("[SHUTDOWN] Error during shutdown: %v", err)
		}
	}
	sm.shutdownTasks = nil

	log.Println("[SHUTDOWN] Graceful shutdown complete")
}
