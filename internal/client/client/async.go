package client

import (
	"context"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// Callback receives the outcome of an asynchronous call exactly once.
// It runs on the goroutine that performed the request.
type Callback[T any] func(result *T, err error)

// Async runs the blocking call fn on a new goroutine and hands its result
// to cb. The returned channel is closed after cb has returned.
func Async[T any](ctx context.Context, fn func(ctx context.Context) (*T, error), cb Callback[T]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := fn(ctx)
		cb(res, err)
	}()
	return done
}

// AsyncClient adds callback-style entry points on top of a Client. Each
// method is a thin adapter over its blocking counterpart.
type AsyncClient struct {
	Client
}

func NewAsyncClient(c Client) *AsyncClient {
	return &AsyncClient{Client: c}
}

func (a *AsyncClient) LoginAsync(ctx context.Context, email, password string, cb Callback[models.User]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.User, error) {
		return a.Login(ctx, email, password)
	}, cb)
}

func (a *AsyncClient) RegisterAsync(ctx context.Context, email, password, name string, cb Callback[models.User]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.User, error) {
		return a.Register(ctx, email, password, name)
	}, cb)
}

func (a *AsyncClient) RegisterWithIdentityAsync(ctx context.Context, identityToken string, profile *models.IdentityProfile, cb Callback[models.User]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.User, error) {
		return a.RegisterWithIdentity(ctx, identityToken, profile)
	}, cb)
}

func (a *AsyncClient) RequestPasswordResetAsync(ctx context.Context, email string, cb Callback[models.OTPResponse]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.OTPResponse, error) {
		return a.RequestPasswordReset(ctx, email)
	}, cb)
}

func (a *AsyncClient) VerifyOTPAsync(ctx context.Context, otpID, otp string, cb Callback[models.VerifyOTPResponse]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.VerifyOTPResponse, error) {
		return a.VerifyOTP(ctx, otpID, otp)
	}, cb)
}

func (a *AsyncClient) ResetPasswordAsync(ctx context.Context, resetToken, newPassword string, cb Callback[models.ResetPasswordResponse]) <-chan struct{} {
	return Async(ctx, func(ctx context.Context) (*models.ResetPasswordResponse, error) {
		return a.ResetPassword(ctx, resetToken, newPassword)
	}, cb)
}
