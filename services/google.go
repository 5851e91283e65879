package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// OAuthStateTTL bounds the time between redirect and callback
const OAuthStateTTL = 10 * time.Minute

// GoogleIdentity is the profile returned by Google after a successful exchange
type GoogleIdentity struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	EmailVerified bool
}

type GoogleOAuthService struct {
	Config *oauth2.Config
	States StateStore
}

func NewGoogleOAuthService(clientID, clientSecret, callbackURL string, states StateStore) *GoogleOAuthService {
	return &GoogleOAuthService{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				googleoauth.UserinfoEmailScope,
				googleoauth.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		States: states,
	}
}

// AuthCodeURL returns the consent URL carrying a freshly stored state nonce
func (s *GoogleOAuthService) AuthCodeURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.States.Save(ctx, state, OAuthStateTTL); err != nil {
		return "", err
	}
	return s.Config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange validates the state, trades the code for a token and reads the profile
func (s *GoogleOAuthService) Exchange(ctx context.Context, state, code string) (*GoogleIdentity, error) {
	if state == "" {
		return nil, ErrInvalidState
	}
	ok, err := s.States.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrInvalidInput)
	}

	token, err := s.Config.Exchange(ctx, code)
	if err != nil {
		log.Printf("AUTH FAILED - Google code exchange: %v", err)
		return nil, fmt.Errorf("%w: authorization code rejected", ErrInvalidInput)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(s.Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}

	identity := &GoogleIdentity{
		ID:        info.Id,
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
	}
	if info.VerifiedEmail != nil {
		identity.EmailVerified = *info.VerifiedEmail
	}
	return identity, nil
}
