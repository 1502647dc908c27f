package auth

import (
	"testing"

	"peopledesk/internal/entity"
)

func TestEvaluateSectionRequirements(t *testing.T) {
	tests := []struct {
		name string
		sub  *Subject
		req  Requirement
		want bool
	}{
		{
			name: "nil subject always denies",
			sub:  nil,
			req:  Requirement{Section: SectionDashboard},
			want: false,
		},
		{
			name: "guest with matching allow-list entry",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionDashboard}},
			req:  Requirement{Section: SectionDashboard},
			want: true,
		},
		{
			name: "guest with allow-list missing the section",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionDashboard}},
			req:  Requirement{Section: SectionDocuments},
			want: false,
		},
		{
			name: "guest without allow-list denied by default",
			sub:  &Subject{Role: entity.UserRoleGuest},
			req:  Requirement{Section: SectionDashboard},
			want: false,
		},
		{
			name: "admin with empty allow-list gets role default",
			sub:  &Subject{Role: entity.UserRoleAdmin},
			req:  Requirement{Section: SectionKPIs},
			want: true,
		},
		{
			name: "hr with empty allow-list gets role default",
			sub:  &Subject{Role: entity.UserRoleHR},
			req:  Requirement{Section: SectionEmployees},
			want: true,
		},
		{
			name: "allow-list overrides admin role default",
			sub:  &Subject{Role: entity.UserRoleAdmin, Sections: []string{SectionDashboard}},
			req:  Requirement{Section: SectionDocuments},
			want: false,
		},
		{
			name: "no section requirement leaves subject unrestricted",
			sub:  &Subject{Role: entity.UserRoleGuest},
			req:  Requirement{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.sub, tt.req); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateRoleRequirements(t *testing.T) {
	tests := []struct {
		name string
		sub  *Subject
		req  Requirement
		want bool
	}{
		{
			name: "role in allowed set",
			sub:  &Subject{Role: entity.UserRoleHR},
			req:  Requirement{Roles: []string{entity.UserRoleAdmin, entity.UserRoleHR}},
			want: true,
		},
		{
			name: "role outside allowed set",
			sub:  &Subject{Role: entity.UserRoleHR},
			req:  Requirement{Roles: []string{entity.UserRoleAdmin}},
			want: false,
		},
		{
			name: "guest bypasses role gate via explicit section grant",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionDashboard}},
			req:  Requirement{Section: SectionDashboard, Roles: []string{entity.UserRoleAdmin, entity.UserRoleHR}},
			want: true,
		},
		{
			name: "guest without grant still blocked by role gate",
			sub:  &Subject{Role: entity.UserRoleGuest},
			req:  Requirement{Section: SectionDashboard, Roles: []string{entity.UserRoleAdmin}},
			want: false,
		},
		{
			name: "guest bypass requires the section to be in the list",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionTasks}},
			req:  Requirement{Section: SectionDashboard, Roles: []string{entity.UserRoleAdmin}},
			want: false,
		},
		{
			name: "bypass does not apply without a section requirement",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionDashboard}},
			req:  Requirement{Roles: []string{entity.UserRoleAdmin}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.sub, tt.req); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatePermissionRequirements(t *testing.T) {
	tests := []struct {
		name string
		sub  *Subject
		req  Requirement
		want bool
	}{
		{
			name: "any-of semantics, one held permission suffices",
			sub:  &Subject{Role: entity.UserRoleHR, Permissions: []string{"view_reports"}},
			req:  Requirement{Permissions: []string{"full_access", "view_reports"}},
			want: true,
		},
		{
			name: "no overlap denies",
			sub:  &Subject{Role: entity.UserRoleHR, Permissions: []string{"view_reports"}},
			req:  Requirement{Permissions: []string{"full_access"}},
			want: false,
		},
		{
			name: "empty held set denies",
			sub:  &Subject{Role: entity.UserRoleAdmin},
			req:  Requirement{Permissions: []string{"full_access"}},
			want: false,
		},
		{
			name: "guest section bypass does not satisfy permission gate",
			sub:  &Subject{Role: entity.UserRoleGuest, Sections: []string{SectionDashboard}},
			req: Requirement{
				Section:     SectionDashboard,
				Roles:       []string{entity.UserRoleAdmin},
				Permissions: []string{"full_access"},
			},
			want: false,
		},
		{
			name: "composite requirement fully satisfied",
			sub: &Subject{
				Role:        entity.UserRoleAdmin,
				Permissions: []string{"full_access"},
			},
			req: Requirement{
				Section:     SectionUsers,
				Roles:       []string{entity.UserRoleAdmin},
				Permissions: []string{"full_access"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.sub, tt.req); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}
