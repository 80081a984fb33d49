package auth

import (
	"errors"
	"log"

	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Register(input models.CreateUserInput) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserByID(userID uint) (*models.User, error)
	GetUserTokenVersion(userID uint) (int, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{
		userRepo: userRepo,
	}
}

func (s *service) Register(input models.CreateUserInput) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     string(hashedPassword),
		TokenVersion: 1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: user not found for %s", email)
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++ // Invalidate existing tokens

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}
	return nil
}

func (s *service) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}
