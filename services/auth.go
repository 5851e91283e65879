package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vladimirs1981/employee-info/db"
)

type AuthService struct {
	PG          *sql.DB
	Users       *UserService
	JWT         *JWTService
	EmailDomain string
}

// LoginResult is returned to the client after a successful Google sign-in
type LoginResult struct {
	User  *db.User `json:"user"`
	Token string   `json:"token"`
}

func NewAuthService(pg *sql.DB, users *UserService, jwtService *JWTService, emailDomain string) *AuthService {
	return &AuthService{PG: pg, Users: users, JWT: jwtService, EmailDomain: emailDomain}
}

// GoogleLogin resolves a Google identity to a local user and issues a token.
// Lookup order: google id, then email (linked only when Google verified it),
// then a new employee record.
func (s *AuthService) GoogleLogin(ctx context.Context, identity *GoogleIdentity) (*LoginResult, error) {
	if identity == nil || identity.ID == "" || identity.Email == "" {
		return nil, fmt.Errorf("%w: google profile is missing id or email", ErrInvalidInput)
	}
	if !ValidCompanyEmail(identity.Email, s.EmailDomain) {
		log.Printf("AUTH FAILED - %s is outside %s", identity.Email, s.EmailDomain)
		return nil, fmt.Errorf("%w: only %s accounts may sign in", ErrForbidden, s.EmailDomain)
	}

	user, err := s.Users.GetUserByGoogleID(ctx, identity.ID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		user, err = s.linkOrCreate(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	log.Printf("AUTH SUCCESS - Google user %s (id %d)", user.Email, user.ID)
	return &LoginResult{User: user, Token: token}, nil
}

func (s *AuthService) linkOrCreate(ctx context.Context, identity *GoogleIdentity) (*db.User, error) {
	existing, err := s.Users.GetUserByEmail(ctx, identity.Email)
	if errors.Is(err, ErrNotFound) {
		firstName, lastName := identity.FirstName, identity.LastName
		if firstName == "" {
			firstName = strings.SplitN(identity.Email, "@", 2)[0]
		}
		return insertUser(ctx, s.PG, firstName, lastName, identity.Email, &identity.ID)
	}
	if err != nil {
		return nil, err
	}

	if !identity.EmailVerified {
		return nil, fmt.Errorf("%w: user with this email already exists and is not linked to google", ErrAlreadyExists)
	}
	if existing.GoogleID != nil && *existing.GoogleID != identity.ID {
		return nil, fmt.Errorf("%w: user with this email is linked to another google account", ErrAlreadyExists)
	}

	if _, err := s.PG.ExecContext(ctx, `UPDATE users SET google_id = $2 WHERE id = $1`, existing.ID, identity.ID); err != nil {
		return nil, translateError(err, "user")
	}
	existing.GoogleID = &identity.ID
	log.Printf("AUTH - linked google account to existing user %d", existing.ID)
	return existing, nil
}

// IssueToken signs a token for user and records it
func (s *AuthService) IssueToken(ctx context.Context, user *db.User) (string, error) {
	token, expiresAt, err := s.JWT.Issue(user)
	if err != nil {
		return "", err
	}
	if _, err := s.PG.ExecContext(ctx, `INSERT INTO tokens (user_id, token, expired_at) VALUES ($1, $2, $3)`, user.ID, token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to record token: %w", err)
	}
	return token, nil
}
