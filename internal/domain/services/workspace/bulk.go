package workspace

import (
	"context"

	"atrium/internal/authz"
)

// BulkService applies an operation across a multi-folder selection. The
// outcome is always a partition: the folders the operation proceeded on and
// the ones it was denied for. A non-empty Denied list is the expected shape,
// not an error.
type BulkService interface {
	// ArchiveFolders archives every selected folder the actor may archive
	// and reports the rest. Per-folder updates are independent: one folder's
	// failure never rolls back another's transition.
	ArchiveFolders(ctx context.Context, req *BulkSelectionRequest) (*BulkResult, error)

	// Authorize computes the partition for an arbitrary operation without
	// performing it, for UI surfaces gating bulk action buttons.
	Authorize(ctx context.Context, req *BulkSelectionRequest, op authz.Operation) (*authz.BulkDecision, error)
}

// BulkSelectionRequest is an explicit, immutable selection of folders.
type BulkSelectionRequest struct {
	WorkspaceID string   `json:"-"`
	ActorID     string   `json:"-"`
	FolderIDs   []string `json:"folder_ids"`
}

// BulkResult reports a bulk mutation's outcome per folder.
type BulkResult struct {
	// Archived lists the folders whose transition was performed.
	Archived []string `json:"archived"`

	// Denied lists the folders the actor lacked capability for. They are
	// reported, never silently skipped.
	Denied []string `json:"denied"`

	// Failed lists folders whose store update errored after authorization
	// succeeded; the rest of the batch is unaffected.
	Failed []string `json:"failed,omitempty"`
}
