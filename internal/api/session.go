package api

import (
	"context"
	"net/http"
	"net/url"

	"admin-dashboard/internal/models"
)

type userEnvelope struct {
	User *models.User `json:"user"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registra una cuenta de administrador (todavía sin verificar).
func (c *Client) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	body := signupRequest{Name: name, Email: email, Password: password, Role: models.RoleAdmin}
	return c.userCall(ctx, "signup", http.MethodPost, "/signUp", body)
}

func (c *Client) VerifyEmail(ctx context.Context, code string) (*models.User, error) {
	return c.userCall(ctx, "verify_email", http.MethodPost, "/verify-email", map[string]string{"code": code})
}

// CheckAuth valida la cookie de sesión actual.
func (c *Client) CheckAuth(ctx context.Context) (*models.User, error) {
	return c.userCall(ctx, "check_auth", http.MethodGet, "/check-auth", nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	return c.userCall(ctx, "login", http.MethodPost, "/logIn", loginRequest{Email: email, Password: password})
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/logOut", nil, nil)
}

// ForgotPassword devuelve el mensaje informativo del servidor.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var env messageEnvelope
	err := c.do(ctx, "forgot_password", http.MethodPost, "/forgot-password", map[string]string{"email": email}, &env)
	return env.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var env messageEnvelope
	path := "/reset-password/" + url.PathEscape(token)
	err := c.do(ctx, "reset_password", http.MethodPost, path, map[string]string{"password": password}, &env)
	return env.Message, err
}

func (c *Client) userCall(ctx context.Context, op, method, path string, body any) (*models.User, error) {
	var env userEnvelope
	if err := c.do(ctx, op, method, path, body, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, missing(op, "user")
	}
	return env.User, nil
}
