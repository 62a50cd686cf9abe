package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	"account-rbac-service/internal/domain/rbac"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/mocks"
	appErrors "account-rbac-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type testDeps struct {
	roles       *mocks.MockRoleRepository
	permissions *mocks.MockPermissionRepository
	assignments *mocks.MockAssignmentRepository
	users       *mocks.MockUserRepository
	publisher   *mocks.MockPublisher
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &testDeps{
		roles:       mocks.NewMockRoleRepository(ctrl),
		permissions: mocks.NewMockPermissionRepository(ctrl),
		assignments: mocks.NewMockAssignmentRepository(ctrl),
		users:       mocks.NewMockUserRepository(ctrl),
		publisher:   mocks.NewMockPublisher(ctrl),
	}

	svc := NewService(deps.roles, deps.permissions, deps.assignments, deps.users,
		passthroughTx{}, deps.publisher, func() time.Time { return fixedNow })
	return svc, deps
}

func newRole(code string, system bool) *rbac.Role {
	return &rbac.Role{
		ID:          uuid.New(),
		Name:        code,
		Code:        code,
		Permissions: rbac.GrantCache{"full_access": true},
		IsSystem:    system,
		IsActive:    true,
	}
}

func newPermission(code string) *rbac.Permission {
	return &rbac.Permission{ID: uuid.New(), Name: code, Code: code, IsActive: true}
}

func TestCreateRoleKeepsOnlyMarkers(t *testing.T) {
	svc, deps := newTestService(t)
	actor := uuid.New()

	deps.roles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *rbac.Role) error {
		if _, ok := r.Permissions["USER_VIEW"]; ok {
			t.Error("codes must not be accepted as markers")
		}
		if r.Permissions["audit_reader"] != true {
			t.Errorf("marker lost: %v", r.Permissions)
		}
		if r.IsSystem || !r.IsActive || r.CreatorID == nil || *r.CreatorID != actor {
			t.Errorf("unexpected role %+v", r)
		}
		r.ID = uuid.New()
		return nil
	})

	_, err := svc.CreateRole(context.Background(), &actor, &CreateRoleRequest{
		Name:    "Auditor",
		Code:    "AUDITOR",
		Markers: map[string]interface{}{"audit_reader": true, "USER_VIEW": true},
	})
	if err != nil {
		t.Fatalf("CreateRole() error = %v", err)
	}
}

func TestCreateRoleRejectsLowerCaseCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateRole(context.Background(), nil, &CreateRoleRequest{Name: "Auditor", Code: "auditor"})
	if !errors.Is(err, appErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSystemRoleProtection(t *testing.T) {
	inactive := false
	name := "Renamed"
	description := "Administrators"

	t.Run("delete", func(t *testing.T) {
		svc, deps := newTestService(t)
		role := newRole(rbac.RoleAdmin, true)
		deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)

		if err := svc.DeleteRole(context.Background(), nil, role.ID); !errors.Is(err, appErrors.ErrSystemProtected) {
			t.Fatalf("expected system protected, got %v", err)
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		svc, deps := newTestService(t)
		role := newRole(rbac.RoleAdmin, true)
		deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)

		_, err := svc.UpdateRole(context.Background(), nil, role.ID, &UpdateRoleRequest{IsActive: &inactive})
		if !errors.Is(err, rbac.ErrSystemRole) {
			t.Fatalf("expected ErrSystemRole, got %v", err)
		}
	})

	t.Run("rename", func(t *testing.T) {
		svc, deps := newTestService(t)
		role := newRole(rbac.RoleAdmin, true)
		deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)

		_, err := svc.UpdateRole(context.Background(), nil, role.ID, &UpdateRoleRequest{Name: &name})
		if !errors.Is(err, rbac.ErrSystemRole) {
			t.Fatalf("expected ErrSystemRole, got %v", err)
		}
	})

	t.Run("description is allowed", func(t *testing.T) {
		svc, deps := newTestService(t)
		role := newRole(rbac.RoleAdmin, true)
		deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
		deps.roles.EXPECT().Update(gomock.Any(), role.ID, gomock.Any()).Return(role, nil)

		if _, err := svc.UpdateRole(context.Background(), nil, role.ID, &UpdateRoleRequest{Description: &description}); err != nil {
			t.Fatalf("UpdateRole() error = %v", err)
		}
	})
}

func TestDeleteCustomRole(t *testing.T) {
	svc, deps := newTestService(t)
	role := newRole("AUDITOR", false)
	actor := uuid.New()

	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	deps.roles.EXPECT().SoftDelete(gomock.Any(), role.ID, &actor).Return(nil)

	if err := svc.DeleteRole(context.Background(), &actor, role.ID); err != nil {
		t.Fatalf("DeleteRole() error = %v", err)
	}
}

func TestDeleteSystemPermission(t *testing.T) {
	svc, deps := newTestService(t)
	perm := newPermission(rbac.PermUserView)
	perm.IsSystem = true

	deps.permissions.EXPECT().GetByID(gomock.Any(), perm.ID).Return(perm, nil)

	if err := svc.DeletePermission(context.Background(), nil, perm.ID); !errors.Is(err, rbac.ErrSystemPermission) {
		t.Fatalf("expected ErrSystemPermission, got %v", err)
	}
}

func TestDeletePermissionRefreshesHolders(t *testing.T) {
	svc, deps := newTestService(t)
	perm := newPermission("REPORT_EXPORT")
	holder := newRole("ANALYST", false)
	other := newRole("VIEWER", false)

	deps.permissions.EXPECT().GetByID(gomock.Any(), perm.ID).Return(perm, nil)
	deps.permissions.EXPECT().SoftDelete(gomock.Any(), perm.ID, nil).Return(nil)
	deps.roles.EXPECT().List(gomock.Any(), false).Return([]*rbac.Role{holder, other}, nil)
	deps.assignments.EXPECT().ListRolePermissions(gomock.Any(), holder.ID, true).
		Return([]*rbac.RolePermission{{RoleID: holder.ID, PermissionID: perm.ID}}, nil)
	deps.assignments.EXPECT().ListRolePermissions(gomock.Any(), other.ID, true).Return(nil, nil)
	deps.assignments.EXPECT().ActiveGrantCodes(gomock.Any(), holder.ID).Return([]string{}, nil)
	deps.roles.EXPECT().SetGrantCache(gomock.Any(), holder.ID, rbac.GrantCache{"full_access": true}).Return(nil)

	if err := svc.DeletePermission(context.Background(), nil, perm.ID); err != nil {
		t.Fatalf("DeletePermission() error = %v", err)
	}
}

func TestAssignRole(t *testing.T) {
	svc, deps := newTestService(t)
	user := &domainUser.User{ID: uuid.New(), IsActive: true}
	role := newRole("AUDITOR", false)

	deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	deps.assignments.EXPECT().AssignRole(gomock.Any(), user.ID, role.ID).
		Return(&rbac.UserRole{ID: uuid.New(), UserID: user.ID, RoleID: role.ID, IsActive: true}, nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
		if e.Type != event.RoleAssigned || e.Attributes["role_code"] != "AUDITOR" {
			t.Errorf("unexpected event %+v", e)
		}
		return nil
	})

	resp, err := svc.AssignRole(context.Background(), user.ID, &AssignRoleRequest{RoleID: role.ID})
	if err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	if resp.RoleCode != "AUDITOR" || !resp.IsActive {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAssignRoleRejectsUnavailable(t *testing.T) {
	t.Run("inactive role", func(t *testing.T) {
		svc, deps := newTestService(t)
		user := &domainUser.User{ID: uuid.New(), IsActive: true}
		role := newRole("AUDITOR", false)
		role.IsActive = false

		deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)

		_, err := svc.AssignRole(context.Background(), user.ID, &AssignRoleRequest{RoleID: role.ID})
		if !errors.Is(err, rbac.ErrRoleUnavailable) {
			t.Fatalf("expected ErrRoleUnavailable, got %v", err)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, deps := newTestService(t)
		user := &domainUser.User{ID: uuid.New(), SoftDelete: audit.SoftDelete{IsDeleted: true, DeletedAt: &fixedNow}}

		deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		_, err := svc.AssignRole(context.Background(), user.ID, &AssignRoleRequest{RoleID: uuid.New()})
		if !errors.Is(err, domainUser.ErrUserInactive) {
			t.Fatalf("expected ErrUserInactive, got %v", err)
		}
	})

	t.Run("missing role id", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.AssignRole(context.Background(), uuid.New(), &AssignRoleRequest{})
		if !errors.Is(err, appErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}

func TestGrantPermissionRefreshesCache(t *testing.T) {
	svc, deps := newTestService(t)
	role := newRole("AUDITOR", false)
	perm := newPermission("REPORT_VIEW")

	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	deps.permissions.EXPECT().GetByID(gomock.Any(), perm.ID).Return(perm, nil)
	gomock.InOrder(
		deps.assignments.EXPECT().GrantPermission(gomock.Any(), role.ID, perm.ID).
			Return(&rbac.RolePermission{ID: uuid.New(), RoleID: role.ID, PermissionID: perm.ID, IsActive: true}, nil),
		deps.assignments.EXPECT().ActiveGrantCodes(gomock.Any(), role.ID).Return([]string{"REPORT_VIEW"}, nil),
		deps.roles.EXPECT().SetGrantCache(gomock.Any(), role.ID, rbac.GrantCache{
			"full_access": true,
			"REPORT_VIEW": true,
		}).Return(nil),
	)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := svc.GrantPermission(context.Background(), role.ID, &GrantPermissionRequest{PermissionID: perm.ID})
	if err != nil {
		t.Fatalf("GrantPermission() error = %v", err)
	}
	if resp.PermissionCode != "REPORT_VIEW" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestGrantPermissionRejectsInactivePermission(t *testing.T) {
	svc, deps := newTestService(t)
	role := newRole("AUDITOR", false)
	perm := newPermission("REPORT_VIEW")
	perm.IsActive = false

	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	deps.permissions.EXPECT().GetByID(gomock.Any(), perm.ID).Return(perm, nil)

	_, err := svc.GrantPermission(context.Background(), role.ID, &GrantPermissionRequest{PermissionID: perm.ID})
	if !errors.Is(err, rbac.ErrPermissionUnavailable) {
		t.Fatalf("expected ErrPermissionUnavailable, got %v", err)
	}
}

func TestRevokePermissionRefreshesCache(t *testing.T) {
	svc, deps := newTestService(t)
	role := newRole("AUDITOR", false)
	role.Permissions = rbac.GrantCache{"full_access": true, "REPORT_VIEW": true}
	permID := uuid.New()

	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	gomock.InOrder(
		deps.assignments.EXPECT().RevokePermission(gomock.Any(), role.ID, permID).Return(nil),
		deps.assignments.EXPECT().ActiveGrantCodes(gomock.Any(), role.ID).Return(nil, nil),
		deps.roles.EXPECT().SetGrantCache(gomock.Any(), role.ID, rbac.GrantCache{"full_access": true}).Return(nil),
	)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	if err := svc.RevokePermission(context.Background(), role.ID, permID); err != nil {
		t.Fatalf("RevokePermission() error = %v", err)
	}
}

func TestRevokeMissingGrant(t *testing.T) {
	svc, deps := newTestService(t)
	role := newRole("AUDITOR", false)

	deps.roles.EXPECT().GetByID(gomock.Any(), role.ID).Return(role, nil)
	deps.assignments.EXPECT().RevokePermission(gomock.Any(), role.ID, gomock.Any()).Return(rbac.ErrGrantNotFound)

	if err := svc.RevokePermission(context.Background(), role.ID, uuid.New()); !errors.Is(err, appErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHasPermission(t *testing.T) {
	svc, deps := newTestService(t)
	userID := uuid.New()
	codes := []string{"USER_CREATE", "USER_DELETE", "USER_UPDATE", "USER_VIEW"}
	deps.assignments.EXPECT().EffectivePermissions(gomock.Any(), userID).Return(codes, nil).Times(2)

	ok, err := svc.HasPermission(context.Background(), userID, rbac.PermUserDelete)
	if err != nil || !ok {
		t.Fatalf("expected USER_DELETE to be held, got %v, %v", ok, err)
	}

	ok, err = svc.HasPermission(context.Background(), userID, "REPORT_VIEW")
	if err != nil || ok {
		t.Fatalf("expected REPORT_VIEW to be missing, got %v, %v", ok, err)
	}
}

func TestEffectivePermissionsNeverNil(t *testing.T) {
	svc, deps := newTestService(t)
	userID := uuid.New()

	deps.users.EXPECT().GetByID(gomock.Any(), userID).Return(&domainUser.User{ID: userID}, nil)
	deps.assignments.EXPECT().EffectivePermissions(gomock.Any(), userID).Return(nil, nil)

	resp, err := svc.EffectivePermissions(context.Background(), userID)
	if err != nil {
		t.Fatalf("EffectivePermissions() error = %v", err)
	}
	if resp.Permissions == nil || len(resp.Permissions) != 0 {
		t.Fatalf("expected empty set, got %v", resp.Permissions)
	}
}
