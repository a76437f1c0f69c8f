package workspace

// Capabilities is the resolver's output: one flag per operation a UI surface
// might gate. Absence of a right is simply false; the record never encodes
// "unknown".
type Capabilities struct {
	CanOpen              bool `json:"can_open"`
	CanEdit              bool `json:"can_edit"`
	CanUpload            bool `json:"can_upload"`
	CanShare             bool `json:"can_share"`
	CanDelete            bool `json:"can_delete"`
	CanDownload          bool `json:"can_download"`
	CanManagePermissions bool `json:"can_manage_permissions"`
}

// Union returns the capability-wise OR of two records. Grants only ever
// accumulate; nothing subtracts.
func (c Capabilities) Union(other Capabilities) Capabilities {
	return Capabilities{
		CanOpen:              c.CanOpen || other.CanOpen,
		CanEdit:              c.CanEdit || other.CanEdit,
		CanUpload:            c.CanUpload || other.CanUpload,
		CanShare:             c.CanShare || other.CanShare,
		CanDelete:            c.CanDelete || other.CanDelete,
		CanDownload:          c.CanDownload || other.CanDownload,
		CanManagePermissions: c.CanManagePermissions || other.CanManagePermissions,
	}
}

// AllCapabilities returns a record with every flag granted.
func AllCapabilities() Capabilities {
	return Capabilities{
		CanOpen:              true,
		CanEdit:              true,
		CanUpload:            true,
		CanShare:             true,
		CanDelete:            true,
		CanDownload:          true,
		CanManagePermissions: true,
	}
}
