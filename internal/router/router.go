// Package router dispatches a validated request envelope to the GET
// info/health handler or the POST webhook pipeline.
package router

import (
	"context"
	"time"

	"github.com/genflow/prbridge/internal/fault"
	"github.com/genflow/prbridge/internal/processor"
	"github.com/genflow/prbridge/internal/request"
	"github.com/genflow/prbridge/internal/sysinfo"
)

// Router routes envelopes. The diagnostics provider is injected so GET
// handlers never read process state directly.
type Router struct {
	processor   *processor.Processor
	sys         sysinfo.Provider
	version     string
	environment string
}

// New creates a Router.
func New(p *processor.Processor, sys sysinfo.Provider, version, environment string) *Router {
	return &Router{
		processor:   p,
		sys:         sys,
		version:     version,
		environment: environment,
	}
}

// Route dispatches on the envelope's method tag. The default branch is
// unreachable after request.Decode, but the contract stays total: an unknown
// envelope fails explicitly instead of being dropped.
func (rt *Router) Route(ctx context.Context, env request.Envelope) (any, error) {
	switch e := env.(type) {
	case request.Get:
		return rt.handleGet(e), nil
	case request.Post:
		return rt.processor.Process(ctx, e)
	default:
		return nil, fault.Newf(fault.KindMethod, "unsupported request envelope %T", env).
			With("supported", []string{"GET", "POST"})
	}
}

func (rt *Router) handleGet(get request.Get) map[string]any {
	if get.Health {
		health := map[string]any{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"version":     rt.version,
			"environment": rt.environment,
		}
		if get.Detailed {
			mem := rt.sys.MemStats()
			health["uptime_seconds"] = rt.sys.Uptime().Seconds()
			health["go_version"] = rt.sys.RuntimeVersion()
			health["memory"] = map[string]any{
				"alloc_bytes": mem.Alloc,
				"sys_bytes":   mem.Sys,
				"num_gc":      mem.NumGC,
			}
		}
		return health
	}

	return map[string]any{
		"message":     "GitHub webhook bridge",
		"version":     rt.version,
		"environment": rt.environment,
		"endpoints": map[string]string{
			"GET /":                      "API information",
			"GET /?health":               "Health check",
			"GET /?health&detailed=true": "Detailed health check",
			"POST /":                     "GitHub webhook endpoint",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
