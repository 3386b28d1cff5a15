package seedshift

import "context"

// Approver confirms that rewritten files may replace the originals on disk.
//
// Implementations:
//   - ForcedApprover: approves without asking (--force or non-interactive runs)
//   - InteractiveApprover: prompts the user for confirmation
type Approver interface {
	// RequestApproval asks whether the listed files may be overwritten.
	// Returns true if approved, false if denied.
	RequestApproval(ctx context.Context, paths []string) (bool, error)
}
