// Package session es el store de identidad del administrador.
package session

import (
	"context"
	"log/slog"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"
)

//go:generate mockgen -destination=../../mocks/session_api.go -package=mocks -mock_names=API=MockSessionAPI admin-dashboard/internal/store/session API

// API es la parte del backend que usa el store de sesión.
type API interface {
	Signup(ctx context.Context, email, password, name string) (*models.User, error)
	VerifyEmail(ctx context.Context, code string) (*models.User, error)
	CheckAuth(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

// State es la instantánea del store. Error y Message vacíos equivalen a "sin valor".
type State struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsCheckingAuth  bool         `json:"isCheckingAuth"`
	IsLoading       bool         `json:"isLoading"`
	Error           string       `json:"error,omitempty"`
	Message         string       `json:"message,omitempty"`
}

// IsVerifiedAdmin es la condición que exigen las páginas protegidas.
func (s State) IsVerifiedAdmin() bool {
	return s.IsAuthenticated && s.User != nil && s.User.IsVerified
}

const (
	fallbackSignup = "Error signing up"
	fallbackVerify = "Error verifying the email"
	fallbackCheck  = "Error checking authentication"
	fallbackLogin  = "Error logging in."
	fallbackLogout = "Error logging out"
	fallbackForgot = "Error sending the password reset email"
	fallbackReset  = "Error resetting the password"
)

type Store struct {
	api    API
	state  *store.Container[State]
	scope  *store.Scope
	logger *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// InitialState es el estado antes de la primera comprobación de sesión.
func InitialState() State {
	return State{IsCheckingAuth: true}
}

// New crea un store sin sesión verificada todavía (IsCheckingAuth=true).
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:    api,
		state:  store.NewContainer(InitialState()),
		scope:  store.NewScope(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	return s.state.Get()
}

// Close cancela las llamadas en curso y descarta sus resultados.
func (s *Store) Close() {
	s.scope.Close()
	s.state.Close()
}

func (s *Store) Signup(ctx context.Context, email, password, name string) error {
	return s.identityAction(ctx, "signup", fallbackSignup, true, func(ctx context.Context) (*models.User, error) {
		return s.api.Signup(ctx, email, password, name)
	})
}

// VerifyEmail canjea el código de un solo uso. Los fallos remotos quedan sólo en Error.
func (s *Store) VerifyEmail(ctx context.Context, code string) error {
	return s.identityAction(ctx, "verify_email", fallbackVerify, false, func(ctx context.Context) (*models.User, error) {
		return s.api.VerifyEmail(ctx, code)
	})
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.identityAction(ctx, "login", fallbackLogin, true, func(ctx context.Context) (*models.User, error) {
		return s.api.Login(ctx, email, password)
	})
}

// CheckAuth valida la sesión existente. Llamadas concurrentes comparten la
// misma petición. Si falla, la identidad se borra y se devuelve el error.
func (s *Store) CheckAuth(ctx context.Context) error {
	return s.scope.Join(ctx, "check_auth", func(ctx context.Context) error {
		s.state.Update(func(st *State) {
			st.IsCheckingAuth = true
			st.IsLoading = true
			st.Error = ""
		})

		user, err := s.api.CheckAuth(ctx)
		if err != nil {
			msg := store.FailureMessage(err, fallbackCheck)
			s.state.Update(func(st *State) {
				st.User = nil
				st.IsAuthenticated = false
				st.IsCheckingAuth = false
				st.IsLoading = false
				st.Error = msg
			})
			return &store.ActionError{Action: "check_auth", Message: msg, Err: err}
		}

		s.state.Update(func(st *State) {
			st.User = user
			st.IsAuthenticated = true
			st.IsCheckingAuth = false
			st.IsLoading = false
		})
		return nil
	})
}

// Logout borra la identidad local sólo si el servidor confirma el cierre.
func (s *Store) Logout(ctx context.Context) error {
	ctx, done, err := s.scope.Begin(ctx, "logout")
	if err != nil {
		return err
	}
	defer done()

	s.start()
	if err := s.api.Logout(ctx); err != nil {
		return s.fail("logout", err, fallbackLogout)
	}

	s.state.Update(func(st *State) {
		st.User = nil
		st.IsAuthenticated = false
		st.IsLoading = false
	})
	s.logger.Debug("session action completed", "action", "logout")
	return nil
}

// ForgotPassword no modifica la identidad; el aviso del servidor queda en Message.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	return s.messageAction(ctx, "forgot_password", fallbackForgot, false, func(ctx context.Context) (string, error) {
		return s.api.ForgotPassword(ctx, email)
	})
}

func (s *Store) ResetPassword(ctx context.Context, token, password string) error {
	return s.messageAction(ctx, "reset_password", fallbackReset, true, func(ctx context.Context) (string, error) {
		return s.api.ResetPassword(ctx, token, password)
	})
}

func (s *Store) identityAction(ctx context.Context, action, fallback string, raise bool, call func(context.Context) (*models.User, error)) error {
	ctx, done, err := s.scope.Begin(ctx, action)
	if err != nil {
		return err
	}
	defer done()

	s.start()
	user, err := call(ctx)
	if err != nil {
		actionErr := s.fail(action, err, fallback)
		if raise {
			return actionErr
		}
		return nil
	}

	s.state.Update(func(st *State) {
		st.User = user
		st.IsAuthenticated = true
		st.IsLoading = false
		st.Error = ""
	})
	s.logger.Debug("session action completed", "action", action, "user", user.ID.Hex())
	return nil
}

func (s *Store) messageAction(ctx context.Context, action, fallback string, raise bool, call func(context.Context) (string, error)) error {
	ctx, done, err := s.scope.Begin(ctx, action)
	if err != nil {
		return err
	}
	defer done()

	s.start()
	msg, err := call(ctx)
	if err != nil {
		actionErr := s.fail(action, err, fallback)
		if raise {
			return actionErr
		}
		return nil
	}

	s.state.Update(func(st *State) {
		st.Message = msg
		st.IsLoading = false
	})
	s.logger.Debug("session action completed", "action", action)
	return nil
}

func (s *Store) start() {
	s.state.Update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
}

func (s *Store) fail(action string, err error, fallback string) *store.ActionError {
	msg := store.FailureMessage(err, fallback)
	s.state.Update(func(st *State) {
		st.IsLoading = false
		st.Error = msg
	})
	s.logger.Warn("session action failed", "action", action, "error", err)
	return &store.ActionError{Action: action, Message: msg, Err: err}
}
