// Package processor runs the webhook pipeline: authenticate, decode,
// extract identifiers, and reconcile each referenced task record.
package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/genflow/prbridge/internal/fault"
	"github.com/genflow/prbridge/internal/ghevent"
	"github.com/genflow/prbridge/internal/metrics"
	"github.com/genflow/prbridge/internal/notion"
	"github.com/genflow/prbridge/internal/request"
	"github.com/genflow/prbridge/internal/signature"
	"github.com/genflow/prbridge/internal/status"
	"github.com/genflow/prbridge/internal/taskid"
)

// expectedEvent is the only webhook event type the bridge processes.
const expectedEvent = "pull_request"

// UpdatedTask records one reconciled task in the outcome envelope.
type UpdatedTask struct {
	Identifier   string        `json:"identifier"`
	RemotePageID string        `json:"remotePageId"`
	NewStatus    status.Status `json:"newStatus"`
}

// Outcome is the POST success envelope.
type Outcome struct {
	Notion OutcomeNotion `json:"notion"`
}

// OutcomeNotion groups the task store results.
type OutcomeNotion struct {
	UpdatedTasks []UpdatedTask `json:"updatedTasks"`
}

// Processor orchestrates one webhook invocation. All collaborators are
// injected; it holds no state across invocations.
type Processor struct {
	store     notion.TaskStore
	extractor *taskid.Extractor
	policy    signature.Policy
	log       *zap.SugaredLogger
}

// New creates a Processor.
func New(store notion.TaskStore, extractor *taskid.Extractor, policy signature.Policy, log *zap.SugaredLogger) *Processor {
	return &Processor{
		store:     store,
		extractor: extractor,
		policy:    policy,
		log:       log,
	}
}

// Process validates and executes a POST webhook request. The pipeline
// short-circuits on the first failure; a failure on any identifier fails the
// whole request rather than reporting partial success.
func (p *Processor) Process(ctx context.Context, post request.Post) (*Outcome, error) {
	if post.Event != expectedEvent {
		return nil, fault.New(fault.KindEvent, "invalid GitHub event type").
			With("expected", expectedEvent).
			With("received", post.Event)
	}

	// The signature covers the body bytes as received; the payload shape is
	// validated separately so a well-signed malformed body and a well-formed
	// unsigned body fail distinctly.
	if err := p.policy.Check(post.Body, post.Signature); err != nil {
		p.log.Warnw("webhook signature rejected", "delivery", post.Delivery)
		return nil, err
	}

	snap, err := ghevent.Decode(post.Body)
	if err != nil {
		return nil, err
	}

	p.log.Infow("webhook validated",
		"action", snap.Action,
		"pr", snap.Number,
		"title", snap.Title,
		"author", snap.Author,
		"repository", snap.Repository,
		"branch", snap.Branch,
	)

	identifiers := p.extractor.FromPullRequest(snap.Title, snap.Branch)
	target := status.FromPullRequest(snap.Draft, snap.Merged)

	// Sequential on purpose: deterministic ordering for logs and outcomes,
	// and two identifiers can resolve to the same page.
	updated := make([]UpdatedTask, 0, len(identifiers))
	for _, id := range identifiers {
		lookup, err := p.store.Lookup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("looking up %s: %w", id, err)
		}

		statusResult, err := p.store.SetStatus(ctx, lookup.PageID, target)
		if err != nil {
			return nil, fmt.Errorf("setting status for %s: %w", id, err)
		}

		if _, err := p.store.SetLinks(ctx, lookup.PageID, []string{snap.HTMLURL}); err != nil {
			return nil, fmt.Errorf("setting links for %s: %w", id, err)
		}

		metrics.TaskUpdated()
		updated = append(updated, UpdatedTask{
			Identifier:   id,
			RemotePageID: statusResult.PageID,
			NewStatus:    statusResult.NewStatus,
		})
	}

	p.log.Infow("webhook processed", "pr", snap.Number, "tasks_updated", len(updated))
	return &Outcome{Notion: OutcomeNotion{UpdatedTasks: updated}}, nil
}
