package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/taskstack/taskstack-be/internal/rowstore"
)

// HealthMonitor periodically probes the hosted datastore and logs host
// resource usage. Purely observational; it never touches request paths.
type HealthMonitor struct {
	store *rowstore.Client
	cron  *cron.Cron
}

// NewHealthMonitor creates a new HealthMonitor.
func NewHealthMonitor(store *rowstore.Client) *HealthMonitor {
	return &HealthMonitor{
		store: store,
		cron:  cron.New(),
	}
}

// Start schedules the probe and runs it once immediately.
func (m *HealthMonitor) Start() {
	log.Info().Msg("Starting datastore health monitor...")
	m.cron.AddFunc("@every 1m", m.probe)
	m.cron.Start()
	go m.probe()
}

// Stop halts the schedule, waiting for a running probe to finish.
func (m *HealthMonitor) Stop() {
	log.Info().Msg("Stopping datastore health monitor.")
	<-m.cron.Stop().Done()
}

func (m *HealthMonitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	err := m.store.Ping(ctx)
	latency := time.Since(start)

	var entry *zerolog.Event
	if err != nil {
		entry = log.Warn().Err(err)
	} else {
		entry = log.Info()
	}

	if cpuPercents, cpuErr := cpu.Percent(0, false); cpuErr == nil && len(cpuPercents) > 0 {
		entry = entry.Float64("host_cpu_pct", cpuPercents[0])
	}
	if vm, memErr := mem.VirtualMemory(); memErr == nil {
		entry = entry.Float64("host_mem_pct", vm.UsedPercent)
	}

	entry.Dur("latency", latency).Bool("reachable", err == nil).Msg("Datastore health probe")
}
