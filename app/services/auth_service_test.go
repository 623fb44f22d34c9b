package services

import (
	"testing"
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequiresVerifiedOTP(t *testing.T) {
	setupTest(t)
	svc := NewAuthService()

	_, err := svc.Signup(SignupInput{
		Name: "Asha", Email: "asha@example.com", Password: "secret1", Role: models.RoleBusiness,
	})
	assert.ErrorIs(t, err, ErrOTPRequired)
}

func TestSignupFlow(t *testing.T) {
	db := setupTest(t)
	svc := NewAuthService()
	email := "asha@example.com"

	require.NoError(t, svc.SendOTP(email))

	var otp models.OTP
	require.NoError(t, db.Where("email = ?", email).Order("id DESC").First(&otp).Error)

	assert.ErrorIs(t, svc.VerifyOTP(email, "000000"), ErrOTPInvalid)
	require.NoError(t, svc.VerifyOTP(email, otp.Code))

	user, err := svc.Signup(SignupInput{
		Name: "Asha", Email: email, Phone: "9999999999",
		Password: "secret1", Role: models.RoleBusiness,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, auth.CheckPassword(user.Password, "secret1"))

	// Codes are purged after signup.
	var count int64
	require.NoError(t, db.Model(&models.OTP{}).Where("email = ?", email).Count(&count).Error)
	assert.Zero(t, count)

	// Same email cannot sign up again even with a fresh verified code.
	require.NoError(t, svc.SendOTP(email))
	require.NoError(t, db.Where("email = ?", email).Order("id DESC").First(&otp).Error)
	require.NoError(t, svc.VerifyOTP(email, otp.Code))
	_, err = svc.Signup(SignupInput{
		Name: "Asha", Email: email, Password: "secret1", Role: models.RoleBusiness,
	})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	setupTest(t)
	svc := NewAuthService()

	_, err := svc.Signup(SignupInput{
		Name: "Asha", Email: "a@example.com", Password: "secret1", Role: "superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestExpiredOTPRejected(t *testing.T) {
	db := setupTest(t)
	svc := NewAuthService()
	email := "late@example.com"

	otp := models.OTP{Email: email, Code: "123456", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, db.Create(&otp).Error)

	assert.ErrorIs(t, svc.VerifyOTP(email, "123456"), ErrOTPInvalid)
}

func TestLogin(t *testing.T) {
	db := setupTest(t)
	svc := NewAuthService()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	u := models.User{Name: "Dev", Email: "dev@example.com", Password: hash, Role: models.RoleInfluencer}
	require.NoError(t, db.Create(&u).Error)

	token, got, err := svc.Login("dev@example.com", "secret1", models.RoleInfluencer)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleInfluencer, claims.Role)

	_, _, err = svc.Login("dev@example.com", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "secret1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("dev@example.com", "secret1", models.RoleBusiness)
	assert.ErrorIs(t, err, ErrRoleMismatch)
}

func TestRefreshToken(t *testing.T) {
	db := setupTest(t)
	svc := NewAuthService()

	user := createUser(t, db, "riya", "riya@example.com", models.RoleInfluencer)

	refresh, err := auth.GenerateRefreshToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	token, err := svc.Refresh(refresh)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// A token for an account that no longer exists is dead.
	ghost, err := auth.GenerateRefreshToken(user.ID+100, "ghost@example.com", models.RoleBusiness)
	require.NoError(t, err)
	_, err = svc.Refresh(ghost)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	db := setupTest(t)
	svc := NewAuthService()
	email := "reset@example.com"

	hash, err := auth.HashPassword("oldpass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "R", Email: email, Password: hash, Role: models.RoleBusiness,
	}).Error)

	assert.ErrorIs(t, svc.ResetPassword(email, "newpass6"), ErrOTPRequired)

	require.NoError(t, svc.SendOTP(email))
	var otp models.OTP
	require.NoError(t, db.Where("email = ?", email).Order("id DESC").First(&otp).Error)
	require.NoError(t, svc.VerifyOTP(email, otp.Code))

	require.NoError(t, svc.ResetPassword(email, "newpass6"))

	_, _, err = svc.Login(email, "newpass6", "")
	assert.NoError(t, err)
	_, _, err = svc.Login(email, "oldpass", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
