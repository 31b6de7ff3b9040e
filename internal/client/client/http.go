package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/common"
	"github.com/dmitrijs2005/studyplanner/internal/logging"
	"github.com/dmitrijs2005/studyplanner/internal/netx"
)

// HTTPClient implements Client over the backend's JSON REST API.
type HTTPClient struct {
	authBaseURL string
	userBaseURL string
	httpClient  *http.Client
	log         logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.log = l
	}
}

// NewHTTPClient returns a client for the authentication service at
// authBaseURL and the user-data service at userBaseURL.
func NewHTTPClient(authBaseURL, userBaseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		authBaseURL: strings.TrimRight(authBaseURL, "/"),
		userBaseURL: strings.TrimRight(userBaseURL, "/"),
		httpClient:  &http.Client{},
		log:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/api/auth/login", "",
		credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return decode(status, body, decodeAuthUser)
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/api/auth/register", "",
		credentialsRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	return decode(status, body, decodeAuthUser)
}

func (c *HTTPClient) RegisterWithIdentity(ctx context.Context, identityToken string, profile *models.IdentityProfile) (*models.User, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/register-apple", "",
		identityRequest{IdentityToken: identityToken, User: profile})
	if err != nil {
		return nil, err
	}
	return decode(status, body, decodeAuthUser)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) (*models.OTPResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/forgot-password", "",
		forgotPasswordRequest{Email: email})
	if err != nil {
		return nil, err
	}
	return decode(status, body, func(b []byte) (*models.OTPResponse, error) {
		var r models.OTPResponse
		if err := strictUnmarshal(b, &r, "otp_id"); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, otpID, otp string) (*models.VerifyOTPResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/verify-otp", "",
		verifyOTPRequest{OTPID: otpID, OTP: otp})
	if err != nil {
		return nil, err
	}
	return decode(status, body, func(b []byte) (*models.VerifyOTPResponse, error) {
		var r models.VerifyOTPResponse
		if err := strictUnmarshal(b, &r, "reset_token"); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.ResetPasswordResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.authBaseURL+"/reset-password", "",
		resetPasswordRequest{ResetToken: resetToken, NewPassword: newPassword})
	if err != nil {
		return nil, err
	}
	return decode(status, body, func(b []byte) (*models.ResetPasswordResponse, error) {
		var r models.ResetPasswordResponse
		if err := strictUnmarshal(b, &r, "message"); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, c.userBaseURL+"/users/me", token, nil)
	if err != nil {
		return nil, err
	}
	u, err := decode(status, body, decodeBareUser)
	if err != nil {
		return nil, err
	}
	u.Token = token
	return u, nil
}

func (c *HTTPClient) UpdatePreferences(ctx context.Context, token string, prefs models.Preferences) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPatch, c.userBaseURL+"/users/preferences", token, prefs)
	return err
}

func (c *HTTPClient) UpdateStudyDuration(ctx context.Context, token string, seconds int) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPatch, c.userBaseURL+"/users/study-duration", token,
		studyDurationRequest{DefaultDuration: seconds})
	return err
}

func (c *HTTPClient) NextSession(ctx context.Context, token string) (*models.StudySession, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, c.userBaseURL+"/sessions/next", token, nil)
	if err != nil {
		return nil, err
	}
	return decode(status, body, decodeNextSession)
}

func (c *HTTPClient) WeeklyProgress(ctx context.Context, token string) ([]models.DayProgress, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, c.userBaseURL+"/progress/weekly", token, nil)
	if err != nil {
		return nil, err
	}
	p, err := decode(status, body, decodeWeeklyProgress)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (c *HTTPClient) StartSession(ctx context.Context, token, taskID string, d time.Duration) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPost, c.userBaseURL+"/sessions/start", token,
		startSessionRequest{TaskID: taskID, Duration: d.Seconds()})
	return err
}

func (c *HTTPClient) EndCurrentSession(ctx context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPost, c.userBaseURL+"/sessions/current/end", token, nil)
	return err
}

func (c *HTTPClient) RecentNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	if err := checkToken(token); err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, c.userBaseURL+"/notifications/recent", token, nil)
	if err != nil {
		return nil, err
	}
	n, err := decode(status, body, decodeNotifications)
	if err != nil {
		return nil, err
	}
	return *n, nil
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, token, id string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPost,
		c.userBaseURL+"/notifications/"+url.PathEscape(id)+"/read", token, nil)
	return err
}

func (c *HTTPClient) ClearNotifications(ctx context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	_, _, err := c.do(ctx, http.MethodPost, c.userBaseURL+"/notifications/clear", token, nil)
	return err
}

// do sends one request and returns the status and body of a 2xx response.
// Non-2xx statuses and transport failures come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, target, token string, payload any) (int, []byte, error) {
	req, err := netx.NewJSONRequest(ctx, method, target, payload)
	if err != nil {
		return 0, nil, &APIError{Kind: ErrNetwork, Err: err}
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "url", target, "error", err)
		return 0, nil, &APIError{Kind: ErrNetwork, Err: err}
	}

	body, readErr := netx.ReadBody(resp)
	c.log.Debug(ctx, "request done", "method", method, "url", target, "status", resp.StatusCode)

	if kind := mapStatus(resp.StatusCode); kind != nil {
		return resp.StatusCode, nil, &APIError{Kind: kind, StatusCode: resp.StatusCode, Body: body}
	}
	if readErr != nil {
		return resp.StatusCode, nil, &APIError{Kind: ErrNetwork, StatusCode: resp.StatusCode, Err: readErr}
	}
	return resp.StatusCode, body, nil
}

// decode runs fn over a success body, turning an empty body into
// ErrEmptyResponse and any decoding failure into ErrDecode.
func decode[T any](status int, body []byte, fn func([]byte) (*T, error)) (*T, error) {
	if len(body) == 0 {
		return nil, &APIError{Kind: ErrEmptyResponse, StatusCode: status}
	}
	v, err := fn(body)
	if err != nil {
		return nil, &APIError{Kind: ErrDecode, StatusCode: status, Body: body, Err: err}
	}
	return v, nil
}

// strictUnmarshal decodes body into v and checks that the named fields are
// present in the JSON object.
func strictUnmarshal(body []byte, v any, required ...string) error {
	if err := json.Unmarshal(body, v); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			return fmt.Errorf("missing field %s", name)
		}
	}
	return nil
}

var errNoToken = errors.New("no session token")

// checkToken rejects calls that would certainly fail with 401: an empty
// token or a JWT whose exp claim has passed.
func checkToken(token string) error {
	if token == "" {
		return &APIError{Kind: ErrUnauthorized, Err: errNoToken}
	}
	if tokenExpired(token) {
		return &APIError{Kind: ErrUnauthorized, Err: common.ErrTokenExpired}
	}
	return nil
}
