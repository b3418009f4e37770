package workers

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/hmZa-Sfyn/custom-irc-server/observability"
	"github.com/hmZa-Sfyn/custom-irc-server/runtime"
)

// MonitorWorker reports process health and relay counters at a fixed
// interval. Structured logging only; there is no metrics endpoint.
type MonitorWorker struct {
	log      *slog.Logger
	registry *runtime.Registry
	tracker  *observability.Tracker
	interval time.Duration
}

func NewMonitorWorker(log *slog.Logger, registry *runtime.Registry,
	tracker *observability.Tracker, interval time.Duration) *MonitorWorker {
	return &MonitorWorker{log: log, registry: registry, tracker: tracker, interval: interval}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(proc)
			if err != nil {
				w.log.Error("Failed to collect self stats", "error", err)
				continue
			}
			stats := w.tracker.Snapshot()
			w.log.Info("Server stats",
				"sessions", w.registry.Count(),
				"joined", stats.SessionsJoined,
				"parted", stats.SessionsParted,
				"broadcasts", stats.MessagesBroadcast,
				"direct", stats.DirectMessages,
				"delivery_failures", stats.DeliveryFailures,
				"censored", stats.CensoredMessages,
				"goroutines", goruntime.NumGoroutine(),
				"ram_mb", rss/1024/1024,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage of this server process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
