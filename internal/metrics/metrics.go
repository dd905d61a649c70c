package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	WebhooksReceived  uint64 `json:"webhooks_received"`
	WebhooksProcessed uint64 `json:"webhooks_processed"`
	WebhooksFailed    uint64 `json:"webhooks_failed"`
	TasksUpdated      uint64 `json:"tasks_updated"`
	NotionRequests    uint64 `json:"notion_requests"`
	DryRunSkips       uint64 `json:"dry_run_skips"`
}

var global = &Metrics{}

// WebhookReceived increments the count of webhooks received.
func WebhookReceived() { atomic.AddUint64(&global.WebhooksReceived, 1) }

// WebhookProcessed increments the count of webhooks processed successfully.
func WebhookProcessed() { atomic.AddUint64(&global.WebhooksProcessed, 1) }

// WebhookFailed increments the count of webhooks that produced a failure.
func WebhookFailed() { atomic.AddUint64(&global.WebhooksFailed, 1) }

// TaskUpdated increments the count of remote task records updated.
func TaskUpdated() { atomic.AddUint64(&global.TasksUpdated, 1) }

// NotionRequest increments the count of Notion API calls issued.
func NotionRequest() { atomic.AddUint64(&global.NotionRequests, 1) }

// DryRunSkip increments the count of remote writes skipped by dry-run mode.
func DryRunSkip() { atomic.AddUint64(&global.DryRunSkips, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		WebhooksReceived:  atomic.LoadUint64(&global.WebhooksReceived),
		WebhooksProcessed: atomic.LoadUint64(&global.WebhooksProcessed),
		WebhooksFailed:    atomic.LoadUint64(&global.WebhooksFailed),
		TasksUpdated:      atomic.LoadUint64(&global.TasksUpdated),
		NotionRequests:    atomic.LoadUint64(&global.NotionRequests),
		DryRunSkips:       atomic.LoadUint64(&global.DryRunSkips),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.WebhooksReceived, 0)
	atomic.StoreUint64(&global.WebhooksProcessed, 0)
	atomic.StoreUint64(&global.WebhooksFailed, 0)
	atomic.StoreUint64(&global.TasksUpdated, 0)
	atomic.StoreUint64(&global.NotionRequests, 0)
	atomic.StoreUint64(&global.DryRunSkips, 0)
}
