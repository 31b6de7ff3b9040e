package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studyplanner/internal/client/biometric"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/services"
)

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	err = a.session.Register(ctx, services.RegisterInput{
		Name: name, Email: email, Password: password, ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	a.println("Welcome,", a.session.CurrentUser().Name+"!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	a.println("Login successful")
	return nil
}

func (a *App) BioLogin(ctx context.Context) error {
	if err := a.session.SignInWithBiometrics(ctx); err != nil {
		return err
	}
	a.println("Login successful")
	return nil
}

// Identity signs in with a token issued by a third-party identity
// provider, pasted by the user.
func (a *App) Identity(ctx context.Context) error {
	token, err := GetSimpleText(a.reader, "Identity token", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}

	var profile *models.IdentityProfile
	if name != "" || email != "" {
		profile = &models.IdentityProfile{Name: optional(name), Email: optional(email)}
	}

	if err := a.session.SignInWithIdentity(ctx, token, profile); err != nil {
		return err
	}
	a.println("Login successful")
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Forgot walks through request, verify and reset in one go.
func (a *App) Forgot(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	otp, err := a.recovery.RequestReset(ctx, email)
	if err != nil {
		return err
	}
	a.println(otp.Message)

	code, err := GetSimpleText(a.reader, "Code", a.out)
	if err != nil {
		return err
	}
	verified, err := a.recovery.Verify(ctx, otp.OTPID, code)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	done, err := a.recovery.Reset(ctx, verified.ResetToken, password)
	if err != nil {
		return err
	}
	a.println(done.Message)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.println("Logged out")
	return nil
}

// SetPIN enrolls the PIN used by biologin.
func (a *App) SetPIN(ctx context.Context) error {
	pin, err := GetPassword(a.reader, "New PIN", a.out)
	if err != nil {
		return err
	}
	again, err := GetPassword(a.reader, "Repeat PIN", a.out)
	if err != nil {
		return err
	}
	if pin != again {
		return &services.ValidationError{Message: "PINs do not match"}
	}
	if err := a.pin.Enroll(ctx, pin); err != nil {
		if errors.Is(err, biometric.ErrWeakPIN) {
			return &services.ValidationError{Message: err.Error()}
		}
		return err
	}
	a.println("PIN saved")
	return nil
}
