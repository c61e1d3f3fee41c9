package middleware

import (
	"context"
	"testing"

	"admission-backend/internal/models"
)

func TestStaffBranchScope(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		branchID   int
		wantBranch int
		wantScoped bool
	}{
		{"staff with branch is scoped", models.RoleStaff, 4, 4, true},
		{"admin with branch is not scoped", models.RoleAdmin, 4, 0, false},
		{"super admin with branch is not scoped", models.RoleSuperAdmin, 4, 0, false},
		{"staff without branch", models.RoleStaff, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.WithValue(context.Background(), RoleKey, tt.role)
			if tt.branchID != 0 {
				ctx = context.WithValue(ctx, BranchIDKey, tt.branchID)
			}
			got, ok := StaffBranchScope(ctx)
			if ok != tt.wantScoped || got != tt.wantBranch {
				t.Errorf("StaffBranchScope = (%d, %v), want (%d, %v)", got, ok, tt.wantBranch, tt.wantScoped)
			}
		})
	}
}
