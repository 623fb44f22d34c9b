package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shashiranjanraj/influex/app/jobs"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"github.com/shashiranjanraj/influex/pkg/event"
	"github.com/shashiranjanraj/influex/pkg/logger"
	"github.com/shashiranjanraj/influex/pkg/queue"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

// AuthService covers OTP issuance, signup, login and password reset.
type AuthService struct {
	users *repositories.UserRepository
	otps  *repositories.OTPRepository
}

func NewAuthService() *AuthService {
	return &AuthService{
		users: repositories.NewUserRepository(),
		otps:  repositories.NewOTPRepository(),
	}
}

// SendOTP issues a fresh 6-digit code to the email and queues the delivery
// mail. Re-requesting simply issues a newer code; verification always
// checks the latest one.
func (s *AuthService) SendOTP(email string) error {
	code, err := randomCode(6)
	if err != nil {
		return err
	}

	otp := models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.otps.Create(&otp); err != nil {
		return err
	}

	if err := queue.Dispatch(jobs.OTPEmailJob{Email: email, Code: code}); err != nil {
		logger.Error("auth: otp mail dispatch failed", "email", email, "error", err)
	}
	return nil
}

// VerifyOTP checks code against the latest issued code for the email and
// marks it verified on a match.
func (s *AuthService) VerifyOTP(email, code string) error {
	otp, err := s.otps.Latest(email)
	if err != nil {
		return ErrOTPInvalid
	}
	if otp.Expired(time.Now()) || otp.Code != code {
		return ErrOTPInvalid
	}
	return s.otps.MarkVerified(otp.ID)
}

// SignupInput carries the signup form.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	Category string `json:"category"`
}

// Signup creates the account. The email must hold a verified, unexpired
// OTP; duplicate email or phone is rejected; all codes for the email are
// purged once the row is in.
func (s *AuthService) Signup(in SignupInput) (models.User, error) {
	if !models.ValidRole(in.Role) {
		return models.User{}, ErrInvalidRole
	}

	verified, err := s.otps.HasVerified(in.Email)
	if err != nil {
		return models.User{}, err
	}
	if !verified {
		return models.User{}, ErrOTPRequired
	}

	exists, err := s.users.ExistsByEmailOrPhone(in.Email, in.Phone)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrDuplicateAccount
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Role:     in.Role,
		Category: in.Category,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}

	if err := s.otps.DeleteForEmail(in.Email); err != nil {
		logger.Warn("auth: otp cleanup failed", "email", in.Email, "error", err)
	}

	event.FireAsync("user.registered", user)
	return user, nil
}

// Login checks credentials and the expected role, returning a signed token
// and the account. A wrong password and an unknown email are deliberately
// indistinguishable to the caller.
func (s *AuthService) Login(email, password, role string) (string, models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if role != "" && user.Role != role {
		return "", models.User{}, ErrRoleMismatch
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// Refresh validates a refresh token and issues a new access token. The
// account is re-read so a deleted user or a changed role invalidates old
// refresh tokens immediately.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(user.ID, user.Email, user.Role)
}

// ResetPassword replaces the password for an email holding a verified OTP,
// then purges the codes so the same OTP cannot reset twice.
func (s *AuthService) ResetPassword(email, newPassword string) error {
	verified, err := s.otps.HasVerified(email)
	if err != nil {
		return err
	}
	if !verified {
		return ErrOTPRequired
	}

	if _, err := s.users.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(email, hash); err != nil {
		return err
	}
	return s.otps.DeleteForEmail(email)
}

// randomCode returns n crypto-random decimal digits.
func randomCode(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("auth: random code: %w", err)
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}
