package metrics

import (
	"sync"
	"testing"
)

func TestWebhookReceived(t *testing.T) {
	Reset()

	WebhookReceived()
	m := Get()

	if m.WebhooksReceived != 1 {
		t.Errorf("expected WebhooksReceived=1, got %d", m.WebhooksReceived)
	}
}

func TestWebhookProcessed(t *testing.T) {
	Reset()

	WebhookProcessed()
	m := Get()

	if m.WebhooksProcessed != 1 {
		t.Errorf("expected WebhooksProcessed=1, got %d", m.WebhooksProcessed)
	}
}

func TestWebhookFailed(t *testing.T) {
	Reset()

	WebhookFailed()
	m := Get()

	if m.WebhooksFailed != 1 {
		t.Errorf("expected WebhooksFailed=1, got %d", m.WebhooksFailed)
	}
}

func TestTaskUpdated(t *testing.T) {
	Reset()

	TaskUpdated()
	m := Get()

	if m.TasksUpdated != 1 {
		t.Errorf("expected TasksUpdated=1, got %d", m.TasksUpdated)
	}
}

func TestNotionRequest(t *testing.T) {
	Reset()

	NotionRequest()
	m := Get()

	if m.NotionRequests != 1 {
		t.Errorf("expected NotionRequests=1, got %d", m.NotionRequests)
	}
}

func TestDryRunSkip(t *testing.T) {
	Reset()

	DryRunSkip()
	m := Get()

	if m.DryRunSkips != 1 {
		t.Errorf("expected DryRunSkips=1, got %d", m.DryRunSkips)
	}
}

func TestReset(t *testing.T) {
	WebhookReceived()
	WebhookProcessed()
	WebhookFailed()
	TaskUpdated()
	NotionRequest()
	DryRunSkip()

	Reset()
	m := Get()

	if m.WebhooksReceived != 0 {
		t.Errorf("expected WebhooksReceived=0 after reset, got %d", m.WebhooksReceived)
	}
	if m.WebhooksProcessed != 0 {
		t.Errorf("expected WebhooksProcessed=0 after reset, got %d", m.WebhooksProcessed)
	}
	if m.WebhooksFailed != 0 {
		t.Errorf("expected WebhooksFailed=0 after reset, got %d", m.WebhooksFailed)
	}
	if m.TasksUpdated != 0 {
		t.Errorf("expected TasksUpdated=0 after reset, got %d", m.TasksUpdated)
	}
	if m.NotionRequests != 0 {
		t.Errorf("expected NotionRequests=0 after reset, got %d", m.NotionRequests)
	}
	if m.DryRunSkips != 0 {
		t.Errorf("expected DryRunSkips=0 after reset, got %d", m.DryRunSkips)
	}
}

func TestConcurrentIncrements(t *testing.T) {
	Reset()

	var wg sync.WaitGroup
	iterations := 1000

	for i := 0; i < iterations; i++ {
		wg.Add(3)
		go func() {
			WebhookReceived()
			wg.Done()
		}()
		go func() {
			TaskUpdated()
			wg.Done()
		}()
		go func() {
			NotionRequest()
			wg.Done()
		}()
	}

	wg.Wait()
	m := Get()

	if m.WebhooksReceived != uint64(iterations) {
		t.Errorf("expected WebhooksReceived=%d, got %d", iterations, m.WebhooksReceived)
	}
	if m.TasksUpdated != uint64(iterations) {
		t.Errorf("expected TasksUpdated=%d, got %d", iterations, m.TasksUpdated)
	}
	if m.NotionRequests != uint64(iterations) {
		t.Errorf("expected NotionRequests=%d, got %d", iterations, m.NotionRequests)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	Reset()

	WebhookReceived()
	snapshot := Get()

	WebhookReceived()

	if snapshot.WebhooksReceived != 1 {
		t.Errorf("snapshot should be immutable, expected 1, got %d", snapshot.WebhooksReceived)
	}

	current := Get()
	if current.WebhooksReceived != 2 {
		t.Errorf("current should be 2, got %d", current.WebhooksReceived)
	}
}
