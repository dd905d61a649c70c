// Package taskid derives task identifiers of the form PREFIX-<digits> from
// pull request text fields.
package taskid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/genflow/prbridge/internal/fault"
)

// Extractor matches identifiers for one configured prefix.
type Extractor struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewExtractor compiles the identifier pattern for the given prefix. The
// prefix comes from configuration, so it is escaped before interpolation:
// a prefix like "A.B" must match literally, not as a regex.
func NewExtractor(prefix string) (*Extractor, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fault.New(fault.KindConfig, "task identifier prefix is empty")
	}

	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(prefix) + `-\d+`)
	if err != nil {
		return nil, fault.Wrap(fault.KindConfig, "compiling task identifier pattern", err)
	}

	return &Extractor{prefix: strings.ToUpper(prefix), pattern: pattern}, nil
}

// Prefix returns the normalized (uppercase) prefix.
func (e *Extractor) Prefix() string { return e.prefix }

// FromPullRequest returns the identifiers referenced by the title and branch
// name: matched case-insensitively, normalized to uppercase, deduplicated,
// in first-seen order with title matches before branch matches. An empty
// result is a valid outcome, not an error.
func (e *Extractor) FromPullRequest(title, branch string) []string {
	seen := make(map[string]struct{})
	ids := []string{}

	for _, text := range []string{title, branch} {
		for _, match := range e.pattern.FindAllString(text, -1) {
			id := strings.ToUpper(match)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return ids
}

// Number returns the numeric suffix of an identifier, for the remote store's
// unique_id filter.
func Number(identifier string) (int, error) {
	idx := strings.LastIndex(identifier, "-")
	if idx < 0 {
		return 0, fmt.Errorf("task identifier %q has no numeric suffix", identifier)
	}
	n, err := strconv.Atoi(identifier[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("task identifier %q has no numeric suffix: %w", identifier, err)
	}
	return n, nil
}
