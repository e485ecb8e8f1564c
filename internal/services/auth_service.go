package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

// Login checks the password and binds sid to the user. Unknown, inactive
// and wrong-password logins all yield ErrBadCreds.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if !u.Active {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, classify("session.bind", err)
	}
	return u, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return classify("session.unbind", s.Users.UnbindSession(ctx, sid))
}

// CurrentUser returns the active user bound to sid.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	u, err := s.Users.SessionUser(ctx, sid)
	if err != nil {
		return nil, classify("session.user", err)
	}
	return u, nil
}
