package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/transport"
	"github.com/Skotchmaster/favorites_api/internal/validation"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
	"github.com/Skotchmaster/favorites_api/pkg/tokens"
)

const abilitiesAll = `["*"]`

type AuthService struct {
	Users  CredentialStore
	Tokens TokenStore
	Hasher PasswordHasher
	Secret []byte
	Events EventPublisher
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*transport.UserResponse, error) {
	in, err := validation.Register(name, email, password)
	if err != nil {
		return nil, err
	}

	taken, err := s.Users.UserEmailTaken(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailInUse
	}

	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hashed}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	ev := mykafka.NewEvent("user_registered")
	ev.UserID, ev.Email = u.ID, u.Email
	publish(ctx, s.Events, mykafka.TopicUsers, u.ID, ev)

	return &transport.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.TokenResponse, error) {
	in, err := validation.Login(email, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Users.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.Hasher.Verify(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	jti := tokens.NewJTI()
	exp := s.now().Add(tokens.TTL)
	signed, err := tokens.SignAccessToken(strconv.FormatUint(uint64(u.ID), 10), jti, []string{"*"}, exp, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	row := &models.AccessToken{
		UserID:    u.ID,
		JTI:       jti,
		Hash:      tokens.Sha256Hex(signed),
		Abilities: abilitiesAll,
		ExpiresAt: exp,
	}
	if err := s.Tokens.CreateAccessToken(ctx, row); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	ev := mykafka.NewEvent("user_logged_in")
	ev.UserID = u.ID
	publish(ctx, s.Events, mykafka.TopicUsers, u.ID, ev)

	return &transport.TokenResponse{Type: "bearer", Token: signed, ExpiresAt: exp.UTC()}, nil
}

// Authenticate resolves a bearer value to the id of the user it was issued to.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (uint, error) {
	claims, err := tokens.AccessClaimsFromToken(bearer, s.Secret)
	if err != nil {
		return 0, ErrInvalidCredentials
	}

	row, err := s.Tokens.FindAccessToken(ctx, claims.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("find token: %w", err)
	}

	now := s.now()
	if row.Hash != tokens.Sha256Hex(bearer) || !row.ExpiresAt.After(now) {
		return 0, ErrInvalidCredentials
	}
	if sub, err := strconv.ParseUint(claims.Subject, 10, 64); err != nil || uint(sub) != row.UserID {
		return 0, ErrInvalidCredentials
	}

	if err := s.Tokens.TouchAccessToken(ctx, row.ID, now); err != nil {
		logging.FromContext(ctx).Warn("token_touch_failed", "token_id", row.ID, "error", err)
	}
	return row.UserID, nil
}
