// Package server runs the combat server's long-lived components: services
// start in registration order and stop in reverse on SIGINT, SIGTERM, or
// the first service failure.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running component of the combat server, such as the
// HTTP listener or a background sweeper.
type Service interface {
	// Start blocks until the service stops or fails.
	Start() error
	// Stop asks the service to shut down gracefully.
	Stop()
}

// FuncService adapts a start/stop function pair into a Service.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle supervises a set of services: startup in registration order,
// shutdown in reverse.
type Lifecycle struct {
	logger  *zap.Logger
	members []member
	mu      sync.Mutex
}

type member struct {
	name string
	svc  Service
}

// NewLifecycle creates an empty supervisor.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Registration order is startup order.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.members = append(l.members, member{name: name, svc: svc})
}

// Run starts every registered service and blocks until SIGINT or SIGTERM
// arrives, the context is cancelled, or a service fails. It then stops the
// services in reverse order.
//
// Postcondition: All services are stopped on return; returns the failure
// that forced the shutdown, if any.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.members))
	for _, m := range l.members {
		m := m
		go func() {
			l.logger.Info("starting service", zap.String("service", m.name))
			up := time.Now()
			if err := m.svc.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", m.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(up)),
				)
				failures <- fmt.Errorf("service %s: %w", m.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(l.members)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var cause error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case cause = <-failures:
		l.logger.Error("service error, shutting down", zap.Error(cause))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return cause
}

// stopAll stops the services in reverse registration order.
func (l *Lifecycle) stopAll() {
	begin := time.Now()
	for i := len(l.members) - 1; i >= 0; i-- {
		m := l.members[i]
		stopStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", m.name))
		m.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", m.name),
			zap.Duration("elapsed", time.Since(stopStart)),
		)
	}
	l.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(begin)),
	)
}
