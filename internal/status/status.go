// Package status maps pull request lifecycle flags to the workflow status
// written to the remote task store.
package status

// Status is a workflow status value as the task store names it.
type Status string

const (
	// InProgress marks a task whose PR is still a draft.
	InProgress Status = "In progress"
	// InReview marks a task whose PR is open for review.
	InReview Status = "In review"
	// PRMerged marks a task whose PR has been merged.
	PRMerged Status = "PR merged"
)

// FromPullRequest derives the target status from the PR's lifecycle flags.
// Merged dominates draft; every flag pair maps to exactly one status.
func FromPullRequest(draft, merged bool) Status {
	switch {
	case merged:
		return PRMerged
	case draft:
		return InProgress
	default:
		return InReview
	}
}
