package service

import (
	"errors"

	"qcm_backend/internal/model"
	"qcm_backend/internal/repository"
	"qcm_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the identity collaborator: it issues opaque API tokens and
// resolves them back to a principal. The tokens carry no claims and are
// compared by equality only.
type AuthService struct {
	UserRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{UserRepo: userRepo}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	token, err := util.GenerateToken(util.ApiTokenLength)
	if err != nil {
		return err
	}
	user.ApiToken = token

	return s.UserRepo.Create(user)
}

// Login verifies credentials and rotates the API token, invalidating any
// previously issued one.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, util.ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidLogin
	}

	token, err := util.GenerateToken(util.ApiTokenLength)
	if err != nil {
		return nil, err
	}
	user.ApiToken = token
	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveToken maps a bearer token to its user, or nil when unknown.
func (s *AuthService) ResolveToken(token string) *model.User {
	if token == "" {
		return nil
	}
	user, err := s.UserRepo.FindByToken(token)
	if err != nil {
		return nil
	}
	return user
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return user, err
}

type ProfileUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (s *AuthService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.UserRepo.FindByEmail(*req.Email); err == nil {
			return nil, util.ErrEmailRegistered
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return util.ErrInvalidLogin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Save(user)
}
