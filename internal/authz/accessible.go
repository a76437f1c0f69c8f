package authz

import (
	"atrium/internal/domain/models/workspace"
)

// AccessibleFolders returns the subset of folders the user may enumerate: the
// folders whose resolved CanOpen is true. This is the visibility gate only —
// a folder can be listed without every operation on it being permitted.
func AccessibleFolders(folders []workspace.Folder, user workspace.UserIdentity, role workspace.Role) []workspace.Folder {
	accessible := make([]workspace.Folder, 0, len(folders))
	for i := range folders {
		if Resolve(user, role, &folders[i]).CanOpen {
			accessible = append(accessible, folders[i])
		}
	}
	return accessible
}
