package models

import (
	"testing"

	"github.com/codezana/generator-system-api/utils"
)

func intPtr(n int) *int { return &n }

func TestCredentialsValid(t *testing.T) {
	hash, err := utils.HashPassword("super@super")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !credentialsValid(string(hash), "super@super") {
		t.Error("correct password rejected")
	}
	if credentialsValid(string(hash), "wrong") {
		t.Error("wrong password accepted")
	}
	// A corrupted stored hash must never let a password through.
	if credentialsValid("not-a-bcrypt-hash", "anything") {
		t.Error("malformed stored hash accepted")
	}
}

func TestCanCreateRole(t *testing.T) {
	cases := []struct {
		name    string
		actor   UserRole
		newRole UserRole
		wantErr bool
	}{
		{"super admin creates manager", UserRoleSuperAdmin, UserRoleManager, false},
		{"super admin creates admin", UserRoleSuperAdmin, UserRoleAdmin, true},
		{"super admin creates super admin", UserRoleSuperAdmin, UserRoleSuperAdmin, true},
		{"manager creates admin", UserRoleManager, UserRoleAdmin, false},
		{"manager creates manager", UserRoleManager, UserRoleManager, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := canCreateRole(tc.actor, tc.newRole)
			if (err != nil) != tc.wantErr {
				t.Errorf("canCreateRole(%s, %s) = %v, wantErr %v", tc.actor, tc.newRole, err, tc.wantErr)
			}
		})
	}
}

func TestCanChangeRole(t *testing.T) {
	manager := &User{ID: 2, Role: UserRoleManager}
	ownAdmin := &User{ID: 3, Role: UserRoleAdmin, ManagerId: intPtr(2)}
	otherAdmin := &User{ID: 4, Role: UserRoleAdmin, ManagerId: intPtr(9)}

	cases := []struct {
		name    string
		actor   UserRole
		actorId int
		target  *User
		newRole UserRole
		wantErr bool
	}{
		{"super admin changes manager", UserRoleSuperAdmin, 1, manager, UserRoleManager, true},
		{"super admin demotes manager to admin", UserRoleSuperAdmin, 1, manager, UserRoleAdmin, true},
		{"manager changes own admin", UserRoleManager, 2, ownAdmin, UserRoleAdmin, false},
		{"manager changes foreign admin", UserRoleManager, 2, otherAdmin, UserRoleAdmin, true},
		{"manager changes a manager", UserRoleManager, 2, manager, UserRoleAdmin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := canChangeRole(tc.actor, tc.actorId, tc.target, tc.newRole)
			if (err != nil) != tc.wantErr {
				t.Errorf("canChangeRole(%s, %d, user %d, %s) = %v, wantErr %v",
					tc.actor, tc.actorId, tc.target.ID, tc.newRole, err, tc.wantErr)
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	manager := &User{ID: 2, Role: UserRoleManager}
	admin := &User{ID: 3, Role: UserRoleAdmin, ManagerId: intPtr(2)}

	if err := canDeleteUser(UserRoleManager, 2, &User{ID: 2, Role: UserRoleManager}, false); err == nil {
		t.Error("deleting yourself should fail")
	}
	if err := canDeleteUser(UserRoleSuperAdmin, 1, admin, false); err == nil {
		t.Error("super admin deleting a generator admin should fail")
	}
	if err := canDeleteUser(UserRoleSuperAdmin, 1, manager, true); err == nil {
		t.Error("deleting a manager with admins assigned should fail")
	}
	if err := canDeleteUser(UserRoleSuperAdmin, 1, manager, false); err != nil {
		t.Errorf("deleting a manager without admins: %v", err)
	}
	if err := canDeleteUser(UserRoleManager, 2, admin, false); err != nil {
		t.Errorf("manager deleting own admin: %v", err)
	}
}
