package service

import (
	"errors"

	"github.com/VanshChitransh/ConsultabidV1/internal/dto"
	"github.com/VanshChitransh/ConsultabidV1/internal/model"
	"github.com/VanshChitransh/ConsultabidV1/internal/repository"
	"github.com/VanshChitransh/ConsultabidV1/internal/utils"
)

type AuthService interface {
	Register(req dto.RegisterReq) (uint, error)
	Login(req dto.LoginReq) (*dto.LoginResp, error)
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret string
}

func NewAuthService(repo repository.UserRepository, jwtSecret string) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret}
}

// Register creates an account with a bcrypt-hashed password.
func (s *authService) Register(req dto.RegisterReq) (uint, error) {
	if s.repo.IsEmailExist(req.Email) {
		return 0, errors.New("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return 0, errors.New("failed to hash password")
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         "user",
	}
	if err := s.repo.Create(user); err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(req dto.LoginReq) (*dto.LoginResp, error) {
	user, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errors.New("invalid email or password")
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to issue token")
	}

	return &dto.LoginResp{
		Token:  token,
		Email:  user.Email,
		UserID: user.ID,
	}, nil
}
