package auth

import (
	"peopledesk/internal/entity"
)

// Named UI sections gated independently of role.
const (
	SectionDashboard = "Dashboard"
	SectionEmployees = "Employees"
	SectionProjects  = "Projects"
	SectionTasks     = "Tasks"
	SectionKPIs      = "KPIs"
	SectionDocuments = "Documents"
	SectionAssistant = "Assistant"
	SectionUsers     = "Users"
)

// Subject is the authenticated principal a policy decision is made for.
type Subject struct {
	Role        string
	Permissions []string
	// Sections is the explicit per-user allow-list. When non-empty it is
	// authoritative for section access and overrides role defaults.
	Sections []string
}

// Requirement describes what a route demands. Zero-valued parts do not apply.
type Requirement struct {
	Section     string
	Roles       []string
	Permissions []string
}

// Evaluate decides whether the subject may access a resource carrying the
// given requirement. Checks run section, role, permission, in that order, and
// the first failing check denies. The single exception: a guest whose explicit
// section allow-list satisfied the section requirement is not blocked by the
// role gate for that resource. The bypass never satisfies a permission
// requirement.
func Evaluate(sub *Subject, req Requirement) bool {
	if sub == nil {
		return false
	}

	sectionGrantedByList := false
	if req.Section != "" {
		switch {
		case len(sub.Sections) > 0:
			if !containsString(sub.Sections, req.Section) {
				return false
			}
			sectionGrantedByList = true
		case sub.Role == entity.UserRoleGuest:
			// Guests default to no section access without explicit grants.
			return false
		}
	}

	if len(req.Roles) > 0 && !containsString(req.Roles, sub.Role) {
		if !(sub.Role == entity.UserRoleGuest && sectionGrantedByList) {
			return false
		}
	}

	if len(req.Permissions) > 0 && !anyPermission(sub.Permissions, req.Permissions) {
		return false
	}

	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func anyPermission(held, required []string) bool {
	for _, want := range required {
		if containsString(held, want) {
			return true
		}
	}
	return false
}
