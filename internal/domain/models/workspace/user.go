package workspace

// UserIdentity is the authenticated identity the resolver evaluates
// capabilities for. Team and project membership come from the identity/role
// provider (the membership repository); the resolver never looks them up
// itself.
type UserIdentity struct {
	ID         string   `json:"id"`
	TeamIDs    []string `json:"team_ids,omitempty"`
	ProjectIDs []string `json:"project_ids,omitempty"`
}

// InTeam reports whether the user belongs to the given team.
// An empty teamID never matches.
func (u UserIdentity) InTeam(teamID string) bool {
	if teamID == "" {
		return false
	}
	for _, id := range u.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// InProject reports whether the user belongs to the given project.
func (u UserIdentity) InProject(projectID string) bool {
	if projectID == "" {
		return false
	}
	for _, id := range u.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// Membership is a user's standing in a workspace: their role plus the teams
// and projects they belong to.
type Membership struct {
	WorkspaceID string   `json:"workspace_id"`
	UserID      string   `json:"user_id"`
	Role        Role     `json:"role"`
	TeamIDs     []string `json:"team_ids,omitempty"`
	ProjectIDs  []string `json:"project_ids,omitempty"`
}

// Identity converts the membership into the UserIdentity the resolver takes.
func (m Membership) Identity() UserIdentity {
	return UserIdentity{
		ID:         m.UserID,
		TeamIDs:    m.TeamIDs,
		ProjectIDs: m.ProjectIDs,
	}
}
