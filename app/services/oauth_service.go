package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/crypt"
	httpclient "github.com/shashiranjanraj/influex/pkg/http"
	"gorm.io/gorm"
)

const sessionTTL = 10 * time.Minute

// Provider describes one OAuth integration. Client credentials are read
// from config using the key prefix, e.g. INSTAGRAM_CLIENT_ID.
type Provider struct {
	Name      string
	AuthURL   string
	TokenURL  string
	Scopes    string
	ConfigKey string
}

var providers = map[string]Provider{
	"instagram": {
		Name:      "instagram",
		AuthURL:   "https://api.instagram.com/oauth/authorize",
		TokenURL:  "https://api.instagram.com/oauth/access_token",
		Scopes:    "user_profile,user_media",
		ConfigKey: "INSTAGRAM",
	},
	"youtube": {
		Name:      "youtube",
		AuthURL:   "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:  "https://oauth2.googleapis.com/token",
		Scopes:    "https://www.googleapis.com/auth/youtube.readonly",
		ConfigKey: "YOUTUBE",
	},
	"facebook": {
		Name:      "facebook",
		AuthURL:   "https://www.facebook.com/v19.0/dialog/oauth",
		TokenURL:  "https://graph.facebook.com/v19.0/oauth/access_token",
		Scopes:    "public_profile,email",
		ConfigKey: "FACEBOOK",
	},
}

// OAuthService runs the authorization-code-with-PKCE flow against the
// configured providers. Flow state lives in the auth_sessions table, so
// callbacks survive restarts and work behind multiple replicas.
type OAuthService struct {
	repo *repositories.OAuthRepository
}

func NewOAuthService() *OAuthService {
	return &OAuthService{repo: repositories.NewOAuthRepository()}
}

// LookupProvider returns the provider descriptor for name.
func LookupProvider(name string) (Provider, bool) {
	p, ok := providers[strings.ToLower(name)]
	return p, ok
}

// Connect starts a flow for the user and returns the provider authorize
// URL. The PKCE verifier never leaves the server: only its S256 challenge
// is sent out, and the verifier itself is stored encrypted.
func (s *OAuthService) Connect(userID uint, providerName string) (string, error) {
	provider, ok := LookupProvider(providerName)
	if !ok {
		return "", ErrNotFound
	}

	verifier, err := randomURLSafe(64)
	if err != nil {
		return "", err
	}
	verifierEnc, err := crypt.Encrypt(verifier)
	if err != nil {
		return "", err
	}

	redirectURI := strings.TrimRight(config.AppURL(), "/") + "/api/oauth/callback/" + provider.Name
	session := models.AuthSession{
		State:       uuid.NewString(),
		Provider:    provider.Name,
		UserID:      userID,
		VerifierEnc: verifierEnc,
		RedirectURI: redirectURI,
		ExpiresAt:   time.Now().Add(sessionTTL),
	}
	if err := s.repo.CreateSession(&session); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", config.Get(provider.ConfigKey+"_CLIENT_ID", ""))
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", provider.Scopes)
	q.Set("state", session.State)
	q.Set("code_challenge", s256Challenge(verifier))
	q.Set("code_challenge_method", "S256")
	return provider.AuthURL + "?" + q.Encode(), nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// Callback completes the flow: the state row is consumed exactly once,
// the code is exchanged using the decrypted verifier, and the tokens are
// stored encrypted on the provider account.
func (s *OAuthService) Callback(providerName, state, code string) (models.ProviderAccount, error) {
	provider, ok := LookupProvider(providerName)
	if !ok {
		return models.ProviderAccount{}, ErrNotFound
	}

	session, err := s.repo.FindSessionByState(state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProviderAccount{}, ErrSessionExpired
		}
		return models.ProviderAccount{}, err
	}
	if session.Provider != provider.Name || !session.Usable(time.Now()) {
		return models.ProviderAccount{}, ErrSessionExpired
	}

	consumed, err := s.repo.ConsumeSession(session.ID)
	if err != nil {
		return models.ProviderAccount{}, err
	}
	if !consumed {
		return models.ProviderAccount{}, ErrSessionExpired
	}

	verifier, err := crypt.Decrypt(session.VerifierEnc)
	if err != nil {
		return models.ProviderAccount{}, err
	}

	resp, err := httpclient.Post(provider.TokenURL).
		Header("Content-Type", "application/x-www-form-urlencoded").
		Body(url.Values{
			"client_id":     {config.Get(provider.ConfigKey+"_CLIENT_ID", "")},
			"client_secret": {config.Get(provider.ConfigKey+"_CLIENT_SECRET", "")},
			"grant_type":    {"authorization_code"},
			"code":          {code},
			"redirect_uri":  {session.RedirectURI},
			"code_verifier": {verifier},
		}.Encode()).
		Timeout(15 * time.Second).
		Send()
	if err != nil {
		return models.ProviderAccount{}, fmt.Errorf("oauth: token exchange: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return models.ProviderAccount{}, fmt.Errorf("oauth: provider rejected code: %w", err)
	}

	var tok tokenResponse
	if err := resp.JSON(&tok); err != nil {
		return models.ProviderAccount{}, fmt.Errorf("oauth: decode token response: %w", err)
	}

	accessEnc, err := crypt.Encrypt(tok.AccessToken)
	if err != nil {
		return models.ProviderAccount{}, err
	}
	refreshEnc := ""
	if tok.RefreshToken != "" {
		if refreshEnc, err = crypt.Encrypt(tok.RefreshToken); err != nil {
			return models.ProviderAccount{}, err
		}
	}

	account := models.ProviderAccount{
		UserID:          session.UserID,
		Provider:        provider.Name,
		ProviderUserID:  tok.UserID,
		AccessTokenEnc:  accessEnc,
		RefreshTokenEnc: refreshEnc,
		Scopes:          provider.Scopes,
		ExpiresAt:       time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	if err := s.repo.SaveAccount(&account); err != nil {
		return models.ProviderAccount{}, err
	}
	return account, nil
}

// DataDeletion handles a provider-initiated deletion callback. The
// signed_request is "<sig>.<payload>" where sig is the base64url HMAC-SHA256
// of the payload keyed with the app secret. Returns a confirmation code the
// provider can poll.
func (s *OAuthService) DataDeletion(providerName, signedRequest string) (string, error) {
	provider, ok := LookupProvider(providerName)
	if !ok {
		return "", ErrNotFound
	}

	parts := strings.SplitN(signedRequest, ".", 2)
	if len(parts) != 2 {
		return "", ErrBadSignature
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrBadSignature
	}

	secret := config.Get(provider.ConfigKey+"_CLIENT_SECRET", "")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", ErrBadSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrBadSignature
	}
	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", ErrBadSignature
	}

	if err := s.repo.DeleteAccountsByProviderUser(provider.Name, payload.UserID); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}

// Disconnect unlinks the provider from the user's account.
func (s *OAuthService) Disconnect(userID uint, providerName string) error {
	provider, ok := LookupProvider(providerName)
	if !ok {
		return ErrNotFound
	}
	if _, err := s.repo.FindAccount(userID, provider.Name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.DeleteAccount(userID, provider.Name)
}

// CleanupExpiredSessions purges dead flows. Run from the scheduler.
func (s *OAuthService) CleanupExpiredSessions() error {
	return s.repo.DeleteExpiredSessions()
}

func randomURLSafe(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("oauth: random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func s256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
