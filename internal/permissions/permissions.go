// Package permissions contains the access decision rules for every resource.
// All functions are pure predicates over already-loaded records: no database
// access, no side effects. Callers must evaluate the relevant predicate before
// mutating anything, so a deny always means zero writes.
//
// A nil profile stands for "no profile row exists" and carries zero
// capabilities. Ownership rules deliberately ignore the profile: owning the
// project is enough on its own, and lacking a profile does not help either way.
package permissions

import (
	"github.com/tkzw-dev/issue-tracker-api/internal/models"
)

// Capabilities are the three independent flags attached to a profile.
type Capabilities struct {
	CanCreateProjects bool
	CanDeleteIssues   bool
	CanAssignIssues   bool
}

// DefaultsFor returns the capability flags implied by a role. Applied whenever
// a role changes, before any explicit per-flag overrides.
func DefaultsFor(role models.Role) Capabilities {
	switch role {
	case models.RoleAdmin, models.RoleProjectManager:
		return Capabilities{CanCreateProjects: true, CanDeleteIssues: true, CanAssignIssues: true}
	case models.RoleDeveloper:
		return Capabilities{CanCreateProjects: true}
	default: // tester, guest
		return Capabilities{}
	}
}

// IsAdmin reports whether the profile carries the admin role.
func IsAdmin(p *models.Profile) bool {
	return p != nil && p.Role == models.RoleAdmin
}

// IsProjectManager reports whether the profile carries the project_manager role.
func IsProjectManager(p *models.Profile) bool {
	return p != nil && p.Role == models.RoleProjectManager
}

// CanManageAllProjects holds for admins and project managers.
func CanManageAllProjects(p *models.Profile) bool {
	return IsAdmin(p) || IsProjectManager(p)
}

// CanCreateProject requires an authenticated principal whose profile grants
// project creation, either via the flag or via the admin role.
func CanCreateProject(p *models.Profile) bool {
	if p == nil {
		return false
	}
	return p.CanCreateProjects || IsAdmin(p)
}

// CanModifyProject governs project update and delete: only the owner may
// touch a project. Unowned projects cannot be modified by anyone.
func CanModifyProject(userID uint64, project *models.Project) bool {
	return project.OwnerID != nil && *project.OwnerID == userID
}

// CanUpdateIssue governs updates that do not touch assignment: the reporter,
// the current assignee, and the parent project's owner all qualify.
// The issue must be loaded with its Project.
func CanUpdateIssue(userID uint64, issue *models.Issue) bool {
	if issue.ReporterID == userID {
		return true
	}
	if issue.AssigneeID != nil && *issue.AssigneeID == userID {
		return true
	}
	return CanModifyProject(userID, &issue.Project)
}

// CanAssignIssue governs any update whose payload touches the assignee. It
// subsumes CanUpdateIssue for such requests: a mixed payload is governed
// entirely by this rule.
func CanAssignIssue(userID uint64, p *models.Profile, issue *models.Issue) bool {
	if CanModifyProject(userID, &issue.Project) {
		return true
	}
	if p == nil {
		return false
	}
	return IsAdmin(p) || p.CanAssignIssues || CanManageAllProjects(p)
}

// CanDeleteIssue allows admins, the project owner, and reporters who hold the
// can_delete_issues flag.
func CanDeleteIssue(userID uint64, p *models.Profile, issue *models.Issue) bool {
	if IsAdmin(p) {
		return true
	}
	if CanModifyProject(userID, &issue.Project) {
		return true
	}
	return p != nil && p.CanDeleteIssues && issue.ReporterID == userID
}

// CanManageRoles restricts role and capability changes to admins.
func CanManageRoles(p *models.Profile) bool {
	return IsAdmin(p)
}

// assignmentFields are the payload keys that switch an issue update from the
// general rule to the assignment rule.
var assignmentFields = []string{"assignee", "assignee_id"}

// IsAssignmentUpdate reports whether a raw update payload touches assignment.
func IsAssignmentUpdate(fields map[string]any) bool {
	for _, key := range assignmentFields {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}
