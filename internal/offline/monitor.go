package offline

import (
	"context"
	"log"
	"sync"
	"time"
)

// Probe reports whether the backend is currently reachable.
type Probe func(ctx context.Context) error

// MonitorConfig holds configuration for the connectivity monitor.
type MonitorConfig struct {
	// Interval is how often the probe runs. Default: 15 seconds.
	Interval time.Duration

	// ProbeTimeout bounds a single probe call. Default: 5 seconds.
	ProbeTimeout time.Duration
}

// Monitor watches backend connectivity as a two-state machine. The
// Offline->Online transition fires the OnOnline callback exactly once per
// transition; Online->Offline only updates the reported status.
type Monitor struct {
	probe    Probe
	onOnline func(ctx context.Context)
	config   MonitorConfig

	mu     sync.Mutex
	online bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMonitor creates a connectivity monitor. onOnline may be nil.
func NewMonitor(probe Probe, onOnline func(ctx context.Context), config MonitorConfig) *Monitor {
	if config.Interval == 0 {
		config.Interval = 15 * time.Second
	}
	if config.ProbeTimeout == 0 {
		config.ProbeTimeout = 5 * time.Second
	}

	return &Monitor{
		probe:    probe,
		onOnline: onOnline,
		config:   config,
		stopCh:   make(chan struct{}),
	}
}

// Start reads the initial connectivity state and begins polling the probe.
// The initial state does not count as a transition.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	m.online = m.runProbe(ctx)
	initial := m.online
	m.mu.Unlock()

	log.Printf("[Monitor] Started, initial state: %s", stateLabel(initial))

	m.wg.Add(1)
	go m.loop()
}

// Stop halts the probe loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()
}

// Online reports the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline injects a connectivity observation, transitioning the state
// machine. Exposed so environment events (and tests) can drive transitions
// without waiting for the probe.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	m.mu.Unlock()

	if online == wasOnline {
		return
	}

	log.Printf("[Monitor] Connectivity changed: %s -> %s", stateLabel(wasOnline), stateLabel(online))

	if online && m.onOnline != nil {
		m.onOnline(ctx)
	}
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx := context.Background()
			m.SetOnline(ctx, m.runProbe(ctx))
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) runProbe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.config.ProbeTimeout)
	defer cancel()
	return m.probe(ctx) == nil
}

func stateLabel(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}
