// Package ghevent decodes the GitHub pull_request webhook payload into the
// snapshot consumed by the pipeline. The payload is an untrusted external
// value: decoding reports the first structural mismatch as a classified
// fault instead of letting a nil dereference surface later.
package ghevent

import (
	"encoding/json"

	"github.com/google/go-github/v60/github"

	"github.com/genflow/prbridge/internal/fault"
)

// Snapshot is the projection of the pull request the pipeline consumes.
// Only Title, Branch, Draft, and Merged drive behavior; the rest is carried
// for logs and the outcome envelope.
type Snapshot struct {
	Action     string
	Number     int
	ID         int64
	Title      string
	Branch     string
	State      string
	Draft      bool
	Merged     bool
	HTMLURL    string
	Author     string
	Repository string
}

// Decode parses and validates a pull_request webhook body. The go-github
// types use pointer fields throughout, which lets validation distinguish a
// missing field from a zero value.
func Decode(body []byte) (*Snapshot, error) {
	var event github.PullRequestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fault.Wrap(fault.KindDecode, "malformed webhook payload", err)
	}

	if event.Action == nil {
		return nil, missing("action")
	}
	pr := event.PullRequest
	if pr == nil {
		return nil, missing("pull_request")
	}
	if pr.Title == nil {
		return nil, missing("pull_request.title")
	}
	if pr.Head == nil {
		return nil, missing("pull_request.head")
	}
	if pr.Head.Ref == nil {
		return nil, missing("pull_request.head.ref")
	}
	if pr.HTMLURL == nil {
		return nil, missing("pull_request.html_url")
	}
	if state := pr.GetState(); state != "" && state != "open" && state != "closed" {
		return nil, fault.Newf(fault.KindDecode, "invalid pull request state %q", state).
			With("field", "pull_request.state").
			With("expected", []string{"open", "closed"})
	}
	if event.Repo == nil {
		return nil, missing("repository")
	}
	if event.Sender == nil {
		return nil, missing("sender")
	}

	return &Snapshot{
		Action:     event.GetAction(),
		Number:     pr.GetNumber(),
		ID:         pr.GetID(),
		Title:      pr.GetTitle(),
		Branch:     pr.Head.GetRef(),
		State:      pr.GetState(),
		Draft:      pr.GetDraft(),
		Merged:     pr.GetMerged(),
		HTMLURL:    pr.GetHTMLURL(),
		Author:     event.Sender.GetLogin(),
		Repository: event.Repo.GetFullName(),
	}, nil
}

func missing(field string) *fault.Fault {
	return fault.Newf(fault.KindDecode, "webhook payload missing required field %q", field).
		With("field", field)
}
