package authz

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"atrium/internal/domain/models/workspace"
)

//go:embed config/roles.yaml
var configFiles embed.FS

// RoleBaseline is the static, workspace-wide grant a role carries regardless
// of any particular folder: what a holder may create and how much. Per-folder
// capability is the resolver's job, not the baseline's.
type RoleBaseline struct {
	DisplayName      string                 `yaml:"display_name" json:"display_name"`
	CanCreateFolders bool                   `yaml:"can_create_folders" json:"can_create_folders"`
	CreatableTypes   []workspace.FolderType `yaml:"creatable_types" json:"creatable_types"`
	ViewAllTeams     bool                   `yaml:"view_all_teams" json:"view_all_teams"`

	// MaxFolders caps how many folders a holder may own. Zero means unlimited.
	MaxFolders int `yaml:"max_folders" json:"max_folders"`
}

// CanCreateType reports whether the baseline permits creating folders of the
// given type.
func (b *RoleBaseline) CanCreateType(t workspace.FolderType) bool {
	if !b.CanCreateFolders {
		return false
	}
	for _, ct := range b.CreatableTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// WithinQuota reports whether owning one more folder stays within the
// baseline's quota given the current owned count.
func (b *RoleBaseline) WithinQuota(ownedCount int) bool {
	return b.MaxFolders == 0 || ownedCount < b.MaxFolders
}

// RoleRegistry holds the role baselines loaded from the embedded YAML file.
type RoleRegistry struct {
	baselines map[workspace.Role]*RoleBaseline
	mu        sync.RWMutex
}

type roleFile struct {
	Roles map[string]RoleBaseline `yaml:"roles"`
}

// NewRoleRegistry loads the embedded role baseline definitions.
func NewRoleRegistry() (*RoleRegistry, error) {
	data, err := configFiles.ReadFile("config/roles.yaml")
	if err != nil {
		return nil, fmt.Errorf("read role config: %w", err)
	}

	var file roleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal role config: %w", err)
	}

	r := &RoleRegistry{baselines: make(map[workspace.Role]*RoleBaseline)}
	for name, baseline := range file.Roles {
		role, err := workspace.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("role config: %w", err)
		}
		for _, t := range baseline.CreatableTypes {
			if !t.IsValid() {
				return nil, fmt.Errorf("role config: role %s grants unknown folder type %q", role, t)
			}
		}
		b := baseline
		r.baselines[role] = &b
	}

	// Every role variant must have a baseline, otherwise quota and creation
	// checks would silently deny.
	for _, role := range []workspace.Role{workspace.RoleOwner, workspace.RoleAdmin, workspace.RoleMember} {
		if _, ok := r.baselines[role]; !ok {
			return nil, fmt.Errorf("role config: missing baseline for role %s", role)
		}
	}

	return r, nil
}

// Baseline returns the baseline for a role.
func (r *RoleRegistry) Baseline(role workspace.Role) (*RoleBaseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.baselines[role]
	if !ok {
		return nil, fmt.Errorf("unknown workspace role: %s", role)
	}
	return b, nil
}
