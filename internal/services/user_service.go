package services

import (
	"context"
	"errors"
	"strings"

	"mart-backend/internal/auth"
	"mart-backend/internal/models"
	"mart-backend/internal/repositories"
)

type UserService struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		JWTManager: jwtManager,
	}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = "operator"
	}
	if role != "admin" && role != "operator" {
		return nil, errors.New("role must be 'admin' or 'operator'")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	// First account becomes admin so a fresh install can manage itself
	if count, err := s.UserRepo.CountUsers(ctx); err == nil && count == 0 {
		user.Role = "admin"
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, errors.New("failed to create user: " + err.Error())
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.UserRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account suspended, contact administrator")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}
