package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// RecoveryService chains the three password-reset calls. Nothing it
// handles is persisted.
type RecoveryService interface {
	RequestReset(ctx context.Context, email string) (*models.OTPResponse, error)
	Verify(ctx context.Context, otpID, otp string) (*models.VerifyOTPResponse, error)
	Reset(ctx context.Context, resetToken, newPassword string) (*models.ResetPasswordResponse, error)
}

type recoveryService struct {
	client client.Client
}

func NewRecoveryService(c client.Client) RecoveryService {
	return &recoveryService{client: c}
}

func (s *recoveryService) RequestReset(ctx context.Context, email string) (*models.OTPResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("Please enter your email address")
	}
	return s.client.RequestPasswordReset(ctx, email)
}

func (s *recoveryService) Verify(ctx context.Context, otpID, otp string) (*models.VerifyOTPResponse, error) {
	otp = strings.TrimSpace(otp)
	if otpID == "" || otp == "" {
		return nil, invalid("Please enter the code you received")
	}
	return s.client.VerifyOTP(ctx, otpID, otp)
}

func (s *recoveryService) Reset(ctx context.Context, resetToken, newPassword string) (*models.ResetPasswordResponse, error) {
	if resetToken == "" {
		return nil, invalid("Please verify the code first")
	}
	if len([]rune(newPassword)) < minPasswordLength {
		return nil, invalid("Password must be at least 6 characters long")
	}
	return s.client.ResetPassword(ctx, resetToken, newPassword)
}
