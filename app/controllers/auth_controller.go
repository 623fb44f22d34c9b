package controllers

import (
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/auth"
	"github.com/shashiranjanraj/influex/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// SendOTP issues a verification code to the given email.
func (a *AuthController) SendOTP(c *ctx.Context) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := a.service.SendOTP(body.Email); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"email": body.Email})
}

// VerifyOTP checks a code previously sent to the email.
func (a *AuthController) VerifyOTP(c *ctx.Context) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,digits=6"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := a.service.VerifyOTP(body.Email, body.OTP); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"verified": true})
}

// Signup creates an account for a verified email.
func (a *AuthController) Signup(c *ctx.Context) {
	var body services.SignupInput
	if !c.BindJSON(&body) {
		return
	}

	user, err := a.service.Signup(body)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(user)
}

// Login exchanges credentials for a JWT.
func (a *AuthController) Login(c *ctx.Context) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role"`
	}
	if !c.BindJSON(&body) {
		return
	}

	token, user, err := a.service.Login(body.Email, body.Password, body.Role)
	if err != nil {
		respondErr(c, err)
		return
	}

	refresh, err := auth.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"token": token, "refreshToken": refresh, "user": user})
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (a *AuthController) Refresh(c *ctx.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if !c.BindJSON(&body) {
		return
	}

	token, err := a.service.Refresh(body.RefreshToken)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"token": token})
}

// ResetPassword sets a new password for an email holding a verified OTP.
func (a *AuthController) ResetPassword(c *ctx.Context) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if !c.BindJSON(&body) {
		return
	}

	if err := a.service.ResetPassword(body.Email, body.Password); err != nil {
		respondErr(c, err)
		return
	}
	c.Success(ctx.Map{"reset": true})
}
