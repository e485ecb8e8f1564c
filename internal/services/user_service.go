package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/validate"
)

type UserService struct {
	Users  *repos.UserRepo
	Orders *repos.OrderRepo
}

func NewUserService(users *repos.UserRepo, orders *repos.OrderRepo) *UserService {
	return &UserService{Users: users, Orders: orders}
}

type Registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Password string `json:"password"`
}

// Register creates an active USER account.
func (s *UserService) Register(ctx context.Context, in Registration) (*domain.User, error) {
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, invalid("email is not valid")
	}
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate.Struct(in); err != nil {
		return nil, invalid("%v", err)
	}
	if !validate.Password(in.Password) {
		return nil, invalid("password must be 6-72 characters")
	}

	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, classify("user.hash", err)
	}
	u := &domain.User{
		Email:    email,
		FullName: in.FullName,
		Hash:     string(hash),
		Role:     domain.RoleUser,
		Active:   true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, classify("user.create", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.Users.List(ctx)
	return out, classify("user.list", err)
}

func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	return classify("user.set_active", s.Users.SetActive(ctx, id, active))
}

func (s *UserService) SetRole(ctx context.Context, id int64, role string) error {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return invalid("role must be %s or %s", domain.RoleUser, domain.RoleAdmin)
	}
	return classify("user.set_role", s.Users.SetRole(ctx, id, role))
}

// Delete removes a user without order history. Users with orders are
// deactivated instead by the caller.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	n, err := s.Orders.CountByUser(ctx, id)
	if err != nil {
		return classify("user.orders", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: user has orders", ErrConflict)
	}
	return classify("user.delete", s.Users.Delete(ctx, id))
}
