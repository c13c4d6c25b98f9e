package healthHandler

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUp        = "up"
	statusDown      = "down"
	statusDisabled  = "not_configured"
	dependencyProbe = 2 * time.Second
)

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *HealthHandler) dependencies(ctx context.Context) (map[string]dependencyStatus, bool) {
	deps := make(map[string]dependencyStatus, 3)
	healthy := true

	switch {
	case h.pose == nil:
		deps["pose_service"] = dependencyStatus{Status: statusDisabled}
	case h.pose.IsConnected():
		deps["pose_service"] = dependencyStatus{Status: statusUp}
	default:
		deps["pose_service"] = dependencyStatus{Status: statusDown}
		healthy = false
	}

	probe := func(name string, ping func(context.Context) error) {
		c, cancel := context.WithTimeout(ctx, dependencyProbe)
		defer cancel()

		if err := ping(c); err != nil {
			deps[name] = dependencyStatus{Status: statusDown, Error: err.Error()}
			healthy = false
			return
		}
		deps[name] = dependencyStatus{Status: statusUp}
	}

	if h.redis != nil {
		probe("redis", h.redis.Ping)
	} else {
		deps["redis"] = dependencyStatus{Status: statusDisabled}
	}

	if h.db != nil {
		probe("database", h.db.PingContext)
	} else {
		deps["database"] = dependencyStatus{Status: statusDisabled}
	}

	return deps, healthy
}

func (h *HealthHandler) Health(ctx *fiber.Ctx) error {
	deps, healthy := h.dependencies(ctx.UserContext())

	status := statusHealthy
	if !healthy {
		status = statusDegraded
	}

	return ctx.JSON(fiber.Map{
		"status":       status,
		"service":      h.info.Name,
		"version":      h.info.Version,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dependencies": deps,
	})
}

func (h *HealthHandler) Detailed(ctx *fiber.Ctx) error {
	deps, healthy := h.dependencies(ctx.UserContext())

	status := statusHealthy
	if !healthy {
		status = statusDegraded
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return ctx.JSON(fiber.Map{
		"status":         status,
		"service":        h.info.Name,
		"version":        h.info.Version,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
		"dependencies":   deps,
		"system": fiber.Map{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"cpus":       runtime.NumCPU(),
			"heap_alloc": mem.HeapAlloc,
			"heap_sys":   mem.HeapSys,
			"gc_cycles":  mem.NumGC,
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
		"configuration":    h.info,
		"processing_stats": h.stats.Snapshot(),
	})
}

func (h *HealthHandler) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(h.stats.Snapshot())
}
