package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

// AdminUserService manages staff accounts.
type AdminUserService struct {
	adminRepo *repository.AdminRepository
	roleRepo  *repository.RoleRepository
	auth      *AuthService
}

// NewAdminUserService creates a new AdminUserService.
func NewAdminUserService(adminRepo *repository.AdminRepository, roleRepo *repository.RoleRepository, auth *AuthService) *AdminUserService {
	return &AdminUserService{adminRepo: adminRepo, roleRepo: roleRepo, auth: auth}
}

// Login verifies credentials and issues a JWT with the role's permissions
// embedded.
func (s *AdminUserService) Login(ctx context.Context, req model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	permissions, err := s.roleRepo.GetPermissionsByRoleID(ctx, admin.RoleID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	token, err := s.auth.GenerateToken(admin.ID, admin.RoleID, permissions)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &model.AdminLoginResponse{Token: token, Admin: *admin, Permissions: permissions}, nil
}

// GetProfile retrieves the authenticated admin's own record.
func (s *AdminUserService) GetProfile(ctx context.Context, adminID int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, adminID)
}

// ListAdmins retrieves all staff accounts.
func (s *AdminUserService) ListAdmins(ctx context.Context, actor model.Actor) ([]model.Admin, error) {
	if !actor.Can(model.PermissionAdminsRead) {
		return nil, ErrPermissionDenied
	}
	return s.adminRepo.List(ctx)
}

// CreateAdmin creates a staff account with a hashed password.
func (s *AdminUserService) CreateAdmin(ctx context.Context, actor model.Actor, email, name, password string, roleID int) (*model.Admin, error) {
	if !actor.Can(model.PermissionAdminsWrite) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.roleRepo.GetRoleByID(ctx, roleID); err != nil {
		return nil, errors.New("role not found")
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Email: email, Name: name, PasswordHash: hash, RoleID: roleID}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return s.adminRepo.GetByID(ctx, admin.ID)
}

// DeleteAdmin removes a staff account. Admins cannot delete themselves.
func (s *AdminUserService) DeleteAdmin(ctx context.Context, actor model.Actor, id int) error {
	if !actor.Can(model.PermissionAdminsWrite) {
		return ErrPermissionDenied
	}
	if id == actor.ID {
		return errors.New("cannot delete your own account")
	}
	return s.adminRepo.Delete(ctx, id)
}
