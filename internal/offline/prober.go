package offline

import (
	"context"
	"sync"
	"time"

	"github.com/AvaniK-2002/asvicare/pkg/logger"
)

// Pinger is the connectivity check, usually the database handle.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Prober polls the backend and exposes an online/offline signal. A
// transition to online is announced on Transitions so the drainer can
// run immediately instead of waiting for its next tick.
type Prober struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger

	mu          sync.RWMutex
	online      bool
	transitions chan bool
}

func NewProber(pinger Pinger, interval time.Duration, logger *logger.Logger) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Prober{
		pinger:      pinger,
		interval:    interval,
		timeout:     5 * time.Second,
		logger:      logger,
		online:      true,
		transitions: make(chan bool, 1),
	}
}

func (p *Prober) Online() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online
}

// Transitions emits true on each offline->online flip.
func (p *Prober) Transitions() <-chan bool {
	return p.transitions
}

func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Probe once up front: the optimistic initial state must not
	// survive a cold start against an unreachable backend, or early
	// mutations fail instead of queueing.
	p.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.pinger.PingContext(probeCtx)
	cancel()

	nowOnline := err == nil

	p.mu.Lock()
	wasOnline := p.online
	p.online = nowOnline
	p.mu.Unlock()

	if nowOnline == wasOnline {
		return
	}
	if nowOnline {
		p.logger.Info("backend reachable again, scheduling queue drain")
		select {
		case p.transitions <- true:
		default:
		}
	} else {
		p.logger.Warn("backend unreachable, entering offline mode")
	}
}

// SetOnline forces the state, for tests and for the not-configured mode.
func (p *Prober) SetOnline(online bool) {
	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	p.mu.Unlock()

	if online && !wasOnline {
		select {
		case p.transitions <- true:
		default:
		}
	}
}
