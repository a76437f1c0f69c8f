package authz

import (
	"fmt"

	"atrium/internal/domain/models/workspace"
)

// Operation names an action a caller wants to perform on folders.
type Operation string

const (
	OpOpen              Operation = "open"
	OpEdit              Operation = "edit"
	OpUpload            Operation = "upload"
	OpShare             Operation = "share"
	OpDownload          Operation = "download"
	OpDelete            Operation = "delete"
	OpArchive           Operation = "archive"
	OpManagePermissions Operation = "manage_permissions"
)

// ParseOperation converts a string into an Operation, rejecting unknown values.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.IsValid() {
		return "", fmt.Errorf("unknown operation %q", s)
	}
	return op, nil
}

// IsValid reports whether the operation is one of the known variants.
func (op Operation) IsValid() bool {
	switch op {
	case OpOpen, OpEdit, OpUpload, OpShare, OpDownload, OpDelete, OpArchive, OpManagePermissions:
		return true
	default:
		return false
	}
}

func (op Operation) String() string { return string(op) }

// Permits reports whether the capability record allows the operation.
// Archiving a folder requires the same capability as deleting it.
func (op Operation) Permits(caps workspace.Capabilities) bool {
	switch op {
	case OpOpen:
		return caps.CanOpen
	case OpEdit:
		return caps.CanEdit
	case OpUpload:
		return caps.CanUpload
	case OpShare:
		return caps.CanShare
	case OpDownload:
		return caps.CanDownload
	case OpDelete, OpArchive:
		return caps.CanDelete
	case OpManagePermissions:
		return caps.CanManagePermissions
	default:
		return false
	}
}

// BulkDecision partitions a selection into the folders the operation may
// proceed on and the ones it may not. Allowed and Denied are disjoint, cover
// the whole selection, and preserve selection order. Denials are the expected
// outcome shape, not an error: callers archive what they can and report the
// rest.
type BulkDecision struct {
	Allowed []string `json:"allowed"`
	Denied  []string `json:"denied"`
}

// AuthorizeBulk applies the resolver per folder for the operation's required
// capability and partitions the selection rather than failing all-or-nothing.
func AuthorizeBulk(selection []workspace.Folder, op Operation, user workspace.UserIdentity, role workspace.Role) BulkDecision {
	decision := BulkDecision{
		Allowed: make([]string, 0, len(selection)),
		Denied:  make([]string, 0),
	}
	for i := range selection {
		if op.Permits(Resolve(user, role, &selection[i])) {
			decision.Allowed = append(decision.Allowed, selection[i].ID)
		} else {
			decision.Denied = append(decision.Denied, selection[i].ID)
		}
	}
	return decision
}
