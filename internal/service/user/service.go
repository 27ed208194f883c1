// Package user implements the thin registration, role, and profile
// wrappers (§4.8): persistence passthroughs the HTTP surface calls before
// the attendance core takes over. None of these participate in the
// attendance invariants.
package user

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

type Service struct {
	users user.Repository
}

func New(users user.Repository) *Service {
	return &Service{users: users}
}

// RegisterInput is the caller-supplied subset of a new user's profile.
type RegisterInput struct {
	UID        string
	Password   string
	FirstName  string
	LastName   string
	Department string
	Position   string
}

// Register hashes the password and creates the user document. Fails
// Conflict if uid already exists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	existing, err := s.users.Get(ctx, in.UID)
	if err != nil {
		return nil, attendance.Internal("check existing user", err)
	}
	if existing != nil {
		return nil, attendance.Conflict("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, attendance.Internal("hash password", err)
	}

	u := &user.User{
		UID:          in.UID,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Department:   in.Department,
		Position:     in.Position,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, attendance.Internal("create user", err)
	}
	return u, nil
}

// Authenticate verifies a uid/password pair and returns the matching
// user on success. Fails NotFound if no such uid exists, Forbidden if
// the password doesn't match.
func (s *Service) Authenticate(ctx context.Context, uid, password string) (*user.User, error) {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if u == nil {
		return nil, attendance.NotFound("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, attendance.Forbidden("invalid credentials")
	}
	return u, nil
}

// SetAdmin flips the isAdmin role flag the HTTP middleware's admin gate
// reads.
func (s *Service) SetAdmin(ctx context.Context, uid string, isAdmin bool) error {
	existing, err := s.users.Get(ctx, uid)
	if err != nil {
		return attendance.Internal("load user", err)
	}
	if existing == nil {
		return attendance.NotFound("user not found")
	}
	if err := s.users.Update(ctx, uid, user.Update{IsAdmin: &isAdmin}); err != nil {
		return attendance.Internal("update user role", err)
	}
	return nil
}

// GetProfile is a passthrough read.
func (s *Service) GetProfile(ctx context.Context, uid string) (*user.User, error) {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if u == nil {
		return nil, attendance.NotFound("user not found")
	}
	return u, nil
}

// UpdateProfile is a passthrough patch over the display attributes.
func (s *Service) UpdateProfile(ctx context.Context, uid string, patch user.Update) (*user.User, error) {
	existing, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if existing == nil {
		return nil, attendance.NotFound("user not found")
	}
	if err := s.users.Update(ctx, uid, patch); err != nil {
		return nil, attendance.Internal("update user profile", err)
	}
	return s.GetProfile(ctx, uid)
}
