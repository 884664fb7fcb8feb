package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/emergency-services/internal/config"
	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/repository"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

// AuthService owns the identity store and the token issue/introspect flows.
// It is the authoritative side of the protocol: dependent services only ever
// see identities through Introspect.
type AuthService struct {
	identities repository.IdentityRepository
	tokens     repository.TokenStore
	bcryptCost int
}

// AuthDependencies encapsulates store requirements for the auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	TokenStore   repository.TokenStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		tokens:     deps.TokenStore,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new identity and issues its token.
func (s *AuthService) Register(ctx context.Context, username, email, firstName, lastName, password string) (*domain.Identity, string, error) {
	if _, err := s.identities.GetByUsername(ctx, username); err == nil {
		return nil, "", util.NewConflict("username already registered", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	identity := &domain.Identity{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GetOrCreate(ctx, identity.ID)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}

// Login validates credentials and returns the identity's token. Issuance is
// get-or-create: logging in twice yields the same key.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Identity, string, error) {
	identity, err := s.identities.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", util.NewUnauthorized("invalid credentials")
		}
		return nil, "", err
	}
	if err := comparePassword(identity.PasswordHash, password); err != nil {
		return nil, "", util.NewUnauthorized("invalid credentials")
	}
	if !identity.Active {
		return nil, "", util.NewUnauthorized("user inactive or deleted")
	}

	token, err := s.tokens.GetOrCreate(ctx, identity.ID)
	if err != nil {
		return nil, "", err
	}
	return identity, token, nil
}

// Introspect resolves an opaque token to its identity. It implements
// remote.Introspector so the auth service's own routes can be guarded by the
// same middleware the dependent services use, minus the HTTP hop.
func (s *AuthService) Introspect(ctx context.Context, token string) (*domain.RemoteIdentity, error) {
	identityID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, util.NewUnauthorized("Invalid token")
		}
		return nil, err
	}

	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("Invalid token")
		}
		return nil, err
	}
	if !identity.Active {
		return nil, util.NewUnauthorized("User inactive or deleted")
	}

	return &domain.RemoteIdentity{
		ID:        identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Active:    identity.Active,
	}, nil
}

// GetUser returns one identity's public fields; peers call the corresponding
// endpoint as the existence check for user_id references.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.Identity, error) {
	return s.identities.GetByID(ctx, id)
}

// ListUsers returns a page of identities.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.Identity, error) {
	return s.identities.List(ctx, limit, offset)
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func comparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
