package session

import (
	"context"
	"fmt"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"
	"delivery-ops/internal/view"
)

// StoreInterface is the part of the store the session endpoints touch.
type StoreInterface interface {
	Snapshot() store.State
	Session() (models.User, bool)
	Login(name string, role models.UserRole) (models.User, error)
	Logout()
	ToggleLanguage() models.Language
}

// TokenIssuer mints the bearer token handed out at login.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

type ServiceInterface interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.SessionResponse, error)
	Navigation(ctx context.Context) ([]models.NavItem, error)
	ToggleLanguage(ctx context.Context) (*models.SessionResponse, error)
}

type Service struct {
	st     StoreInterface
	tokens TokenIssuer
}

func NewService(st StoreInterface, tokens TokenIssuer) *Service {
	return &Service{st: st, tokens: tokens}
}

// Login replaces whatever session exists with a new one for req.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.st.Login(req.Name, req.Role)
	if err != nil {
		return nil, fmt.Errorf("service.Login: %w", err)
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.st.Logout()
		return nil, fmt.Errorf("service.Login: %w", err)
	}
	return &models.LoginResponse{
		Token:           token,
		SessionResponse: view.Session(&user, s.st.Snapshot().Language),
	}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.st.Logout()
	return nil
}

func (s *Service) Current(ctx context.Context) (*models.SessionResponse, error) {
	resp := s.current()
	return &resp, nil
}

func (s *Service) Navigation(ctx context.Context) ([]models.NavItem, error) {
	user, ok := s.st.Session()
	if !ok {
		return nil, fmt.Errorf("service.Navigation: %w", models.ErrNotAuthenticated)
	}
	return view.Navigation(user.Role, s.st.Snapshot().Language), nil
}

func (s *Service) ToggleLanguage(ctx context.Context) (*models.SessionResponse, error) {
	s.st.ToggleLanguage()
	resp := s.current()
	return &resp, nil
}

func (s *Service) current() models.SessionResponse {
	lang := s.st.Snapshot().Language
	if user, ok := s.st.Session(); ok {
		return view.Session(&user, lang)
	}
	return view.Session(nil, lang)
}
