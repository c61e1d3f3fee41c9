package services

import (
	"context"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/auth"
	"admission-backend/internal/cache"
	"admission-backend/internal/models"
	"admission-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	Audit      *audit.Recorder
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, rec *audit.Recorder) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		Audit:      rec,
	}
}

// Login authenticates by email and password and returns a JWT. Verified
// credentials are cached so repeat logins skip the bcrypt compare.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	if userID, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); ok {
		user, err := s.Repo.Get(ctx, int(userID))
		if err == nil && user.IsActive {
			token, err := s.JWTManager.GenerateToken(user)
			if err != nil {
				return nil, err
			}
			return &models.AuthResponse{Token: token, User: user}, nil
		}
		cache.InvalidateAuth(ctx, req.Email, req.Password)
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Forbidden("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Forbidden("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is suspended")
	}

	cache.CacheAuth(ctx, req.Email, req.Password, int64(user.ID))

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest, actorID int) (*models.User, error) {
	e := apperrors.Validation("user validation failed")
	if strings.TrimSpace(req.FirstName) == "" {
		e = e.WithField("first_name", "first name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		e = e.WithField("email", "email is required")
	}
	if len(req.Password) < 8 {
		e = e.WithField("password", "password must be at least 8 characters")
	}
	if req.Role != "" && req.Role != models.RoleSuperAdmin &&
		req.Role != models.RoleAdmin && req.Role != models.RoleStaff {
		e = e.WithField("role", "unknown role")
	}
	if req.Role == models.RoleStaff && req.BranchID == nil {
		e = e.WithField("branch_id", "staff users must be assigned a branch")
	}
	if len(e.FieldErrors) > 0 {
		return nil, e
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		BranchID:     req.BranchID,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Audit.Record("create", "user", u.ID, nil, u, actorID)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest, actorID int) (*models.User, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *u

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Role != "" {
		u.Role = req.Role
	}
	if req.BranchID != nil {
		u.BranchID = req.BranchID
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, apperrors.Validation("password must be at least 8 characters").WithField("password", "password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	} else {
		// Repo keeps the stored hash when this is empty
		u.PasswordHash = ""
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	cache.InvalidateUserCaches(ctx)
	s.Audit.Record("update", "user", id, &before, u, actorID)
	return s.Repo.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id, actorID int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateUserCaches(ctx)
	s.Audit.Record("delete", "user", id, nil, nil, actorID)
	return nil
}
