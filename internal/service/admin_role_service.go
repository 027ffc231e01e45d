package service

import (
	"context"
	"errors"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

// AdminRoleService handles business logic for admin roles.
type AdminRoleService struct {
	roleRepo *repository.RoleRepository
}

// NewAdminRoleService creates a new AdminRoleService.
func NewAdminRoleService(roleRepo *repository.RoleRepository) *AdminRoleService {
	return &AdminRoleService{roleRepo: roleRepo}
}

// ListRoles retrieves all roles with their permissions.
func (s *AdminRoleService) ListRoles(ctx context.Context, actor model.Actor) ([]model.RoleWithPermissions, error) {
	if !actor.Can(model.PermissionRolesRead) {
		return nil, ErrPermissionDenied
	}
	return s.roleRepo.ListRolesWithPermissions(ctx)
}

// GetRoleByID retrieves a specific role and its permissions.
func (s *AdminRoleService) GetRoleByID(ctx context.Context, actor model.Actor, id int) (*model.RoleWithPermissions, error) {
	if !actor.Can(model.PermissionRolesRead) {
		return nil, ErrPermissionDenied
	}
	return s.roleRepo.GetRoleByID(ctx, id)
}

// CreateRole creates a new role and assigns its permissions.
func (s *AdminRoleService) CreateRole(ctx context.Context, actor model.Actor, name string, permissions []string) (*model.RoleWithPermissions, error) {
	if !actor.Can(model.PermissionRolesWrite) {
		return nil, ErrPermissionDenied
	}
	if name == "" {
		return nil, errors.New("role name cannot be empty")
	}

	id, err := s.roleRepo.CreateRole(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			// Best-effort cleanup so a half-created role does not linger.
			_ = s.roleRepo.DeleteRole(ctx, id)
			return nil, err
		}
	}

	return s.roleRepo.GetRoleByID(ctx, id)
}

// UpdateRole updates a role's name and replaces its permissions.
func (s *AdminRoleService) UpdateRole(ctx context.Context, actor model.Actor, id int, name string, permissions []string) (*model.RoleWithPermissions, error) {
	if !actor.Can(model.PermissionRolesWrite) {
		return nil, ErrPermissionDenied
	}
	if id == 1 {
		return nil, errors.New("cannot update the system Superadmin role")
	}
	if name == "" {
		return nil, errors.New("role name cannot be empty")
	}

	if err := s.roleRepo.UpdateRole(ctx, id, name); err != nil {
		return nil, err
	}
	if err := s.roleRepo.DeleteAllPermissionsFromRole(ctx, id); err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := s.roleRepo.AssignPermissionsToRole(ctx, id, permissions); err != nil {
			return nil, err
		}
	}

	return s.roleRepo.GetRoleByID(ctx, id)
}

// DeleteRole deletes a role. Role usage is enforced by the role_id foreign
// key on admins: deletion fails at the DB level while accounts hold it.
func (s *AdminRoleService) DeleteRole(ctx context.Context, actor model.Actor, id int) error {
	if !actor.Can(model.PermissionRolesWrite) {
		return ErrPermissionDenied
	}
	if id == 1 {
		return errors.New("cannot delete the system Superadmin role")
	}
	return s.roleRepo.DeleteRole(ctx, id)
}

// GetAllPermissions retrieves all available system permission codes.
func (s *AdminRoleService) GetAllPermissions() []string {
	perms := make([]string, len(model.AllPermissions))
	for i, p := range model.AllPermissions {
		perms[i] = string(p)
	}
	return perms
}
