package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/app/repositories"
	"github.com/shashiranjanraj/influex/config"
	"github.com/shashiranjanraj/influex/pkg/crypt"
	httpclient "github.com/shashiranjanraj/influex/pkg/http"
	"github.com/shashiranjanraj/influex/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectCreatesSession(t *testing.T) {
	db := setupTest(t)
	config.Set("INSTAGRAM_CLIENT_ID", "ig_client")
	svc := NewOAuthService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	authorizeURL, err := svc.Connect(inf.ID, "instagram")
	require.NoError(t, err)

	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "ig_client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	require.NotEmpty(t, q.Get("state"))

	var session models.AuthSession
	require.NoError(t, db.Where("state = ?", q.Get("state")).First(&session).Error)
	assert.Equal(t, inf.ID, session.UserID)
	assert.Equal(t, "instagram", session.Provider)
	assert.Nil(t, session.UsedAt)

	// The stored verifier is encrypted at rest yet still produces the
	// challenge the provider was shown.
	verifier, err := crypt.Decrypt(session.VerifierEnc)
	require.NoError(t, err)
	assert.NotEqual(t, verifier, session.VerifierEnc)
	assert.Equal(t, q.Get("code_challenge"), s256Challenge(verifier))

	_, err = svc.Connect(inf.ID, "myspace")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCallbackExchangesCodeOnce(t *testing.T) {
	db := setupTest(t)
	config.Set("INSTAGRAM_CLIENT_ID", "ig_client")
	config.Set("INSTAGRAM_CLIENT_SECRET", "ig_secret")
	svc := NewOAuthService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	authorizeURL, err := svc.Connect(inf.ID, "instagram")
	require.NoError(t, err)
	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	state := u.Query().Get("state")

	mt := testkit.NewMockTransport()
	mt.Stub("https://api.instagram.com/oauth/access_token", 200,
		`{"access_token":"tok_abc","refresh_token":"ref_xyz","expires_in":3600,"user_id":"ig_42"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	account, err := svc.Callback("instagram", state, "auth_code_1")
	require.NoError(t, err)
	assert.Equal(t, inf.ID, account.UserID)
	assert.Equal(t, "ig_42", account.ProviderUserID)
	assert.Equal(t, 1, mt.Calls("https://api.instagram.com/oauth/access_token"))

	// Tokens are never stored in the clear.
	assert.NotEqual(t, "tok_abc", account.AccessTokenEnc)
	got, err := crypt.Decrypt(account.AccessTokenEnc)
	require.NoError(t, err)
	assert.Equal(t, "tok_abc", got)
	got, err = crypt.Decrypt(account.RefreshTokenEnc)
	require.NoError(t, err)
	assert.Equal(t, "ref_xyz", got)

	// Replaying the callback fails: the session is single use.
	_, err = svc.Callback("instagram", state, "auth_code_1")
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.Callback("instagram", "no-such-state", "auth_code_1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCallbackRefreshesExistingAccount(t *testing.T) {
	db := setupTest(t)
	config.Set("INSTAGRAM_CLIENT_ID", "ig_client")
	config.Set("INSTAGRAM_CLIENT_SECRET", "ig_secret")
	svc := NewOAuthService()

	inf := createUser(t, db, "diya", "diya@example.com", models.RoleInfluencer)

	mt := testkit.NewMockTransport()
	mt.Stub("https://api.instagram.com/oauth/access_token", 200,
		`{"access_token":"tok_1","expires_in":3600,"user_id":"ig_42"}`)
	httpclient.DefaultClient.Transport = mt
	defer httpclient.ResetTransport()

	connectAndCallback := func() models.ProviderAccount {
		authorizeURL, err := svc.Connect(inf.ID, "instagram")
		require.NoError(t, err)
		u, err := url.Parse(authorizeURL)
		require.NoError(t, err)
		account, err := svc.Callback("instagram", u.Query().Get("state"), "code")
		require.NoError(t, err)
		return account
	}

	first := connectAndCallback()
	second := connectAndCallback()
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.ProviderAccount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCallbackExpiredSession(t *testing.T) {
	db := setupTest(t)
	svc := NewOAuthService()

	verifierEnc, err := crypt.Encrypt("verifier")
	require.NoError(t, err)
	session := models.AuthSession{
		State: "stale-state", Provider: "instagram", UserID: 1,
		VerifierEnc: verifierEnc, ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&session).Error)

	_, err = svc.Callback("instagram", "stale-state", "code")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionSweepKeepsRecentlyUsedRows(t *testing.T) {
	db := setupTest(t)
	repo := repositories.NewOAuthRepository()

	now := time.Now()
	recentUse := now.Add(-10 * time.Minute)
	oldUse := now.Add(-2 * time.Hour)
	for _, s := range []models.AuthSession{
		{State: "active", Provider: "instagram", UserID: 1, VerifierEnc: "v",
			ExpiresAt: now.Add(10 * time.Minute)},
		{State: "just-used", Provider: "instagram", UserID: 1, VerifierEnc: "v",
			ExpiresAt: now.Add(5 * time.Minute), UsedAt: &recentUse},
		{State: "stale-used", Provider: "instagram", UserID: 1, VerifierEnc: "v",
			ExpiresAt: now.Add(5 * time.Minute), UsedAt: &oldUse},
		{State: "expired", Provider: "instagram", UserID: 1, VerifierEnc: "v",
			ExpiresAt: now.Add(-2 * time.Hour)},
	} {
		require.NoError(t, db.Create(&s).Error)
	}

	require.NoError(t, repo.DeleteExpiredSessions())

	var states []string
	require.NoError(t, db.Model(&models.AuthSession{}).
		Order("state ASC").Pluck("state", &states).Error)
	assert.Equal(t, []string{"active", "just-used"}, states)
}

func TestDisconnect(t *testing.T) {
	db := setupTest(t)
	svc := NewOAuthService()

	require.NoError(t, db.Create(&models.ProviderAccount{
		UserID: 3, Provider: "youtube", ProviderUserID: "yt_1",
		AccessTokenEnc: "enc", ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	assert.ErrorIs(t, svc.Disconnect(3, "myspace"), ErrNotFound)
	assert.ErrorIs(t, svc.Disconnect(4, "youtube"), ErrNotFound)

	require.NoError(t, svc.Disconnect(3, "youtube"))

	var count int64
	require.NoError(t, db.Model(&models.ProviderAccount{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDataDeletion(t *testing.T) {
	db := setupTest(t)
	config.Set("FACEBOOK_CLIENT_SECRET", "fb_secret")
	svc := NewOAuthService()

	require.NoError(t, db.Create(&models.ProviderAccount{
		UserID: 7, Provider: "facebook", ProviderUserID: "fb_99",
		AccessTokenEnc: "enc", Scopes: "public_profile",
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":"fb_99"}`))
	mac := hmac.New(sha256.New, []byte("fb_secret"))
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	_, err := svc.DataDeletion("facebook", "garbage")
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = svc.DataDeletion("facebook", "AAAA."+payload)
	assert.ErrorIs(t, err, ErrBadSignature)

	code, err := svc.DataDeletion("facebook", sig+"."+payload)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	var count int64
	require.NoError(t, db.Model(&models.ProviderAccount{}).
		Where("provider_user_id = ?", "fb_99").Count(&count).Error)
	assert.Zero(t, count)
}
