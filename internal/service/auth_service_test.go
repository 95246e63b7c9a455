package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/auth"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/testutil"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

type captureMailer struct {
	codes map[string]int
}

func (m *captureMailer) SendVerificationCode(_ context.Context, to string, code int) error {
	m.codes[to] = code
	return nil
}

type stubNaver struct {
	info *auth.OAuthUserInfo
	err  error
}

func (s stubNaver) AuthCodeURL(state string) string {
	return "https://naver.test/authorize?state=" + state
}

func (s stubNaver) Exchange(context.Context, string) (*auth.OAuthUserInfo, error) {
	return s.info, s.err
}

func newAuthFixture(t *testing.T, naver OAuthProvider) (*fixture, AuthService, *captureMailer, auth.TokenService) {
	f := newFixture(t)
	mailer := &captureMailer{codes: map[string]int{}}
	tokens := auth.TokenService{Secret: []byte("test"), Issuer: "review-feed", Duration: time.Hour}
	svc := NewAuthService(f.accounts, repository.NewEmailVerificationRepository(f.db), mailer, tokens, naver)
	return f, svc, mailer, tokens
}

func TestAuthService_EmailSignupSignin(t *testing.T) {
	_, svc, mailer, tokens := newAuthFixture(t, stubNaver{})
	ctx := context.Background()
	email := "new@example.com"

	_, err := svc.Signup(ctx, dto.SignupInput{Email: email, Password: "password1", Nickname: "new"})
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized), "signup requires verified email")

	require.NoError(t, svc.SendEmailCode(ctx, email))
	code := mailer.codes[email]
	assert.GreaterOrEqual(t, code, 100000)
	assert.LessOrEqual(t, code, 999999)

	wrong := code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	assert.True(t, errcode.Is(svc.VerifyEmail(ctx, email, wrong), errcode.KindNotFound))
	require.NoError(t, svc.VerifyEmail(ctx, email, code))
	assert.True(t, errcode.Is(svc.VerifyEmail(ctx, email, code), errcode.KindConflict))

	tok, err := svc.Signup(ctx, dto.SignupInput{Email: email, Password: "password1", Nickname: "new"})
	require.NoError(t, err)
	claims, err := tokens.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, email, claims.Email)

	_, err = svc.Signup(ctx, dto.SignupInput{Email: email, Password: "password1", Nickname: "again"})
	assert.True(t, errcode.Is(err, errcode.KindConflict))
	assert.True(t, errcode.Is(svc.SendEmailCode(ctx, email), errcode.KindConflict))

	_, err = svc.Signin(ctx, dto.SigninInput{Email: email, Password: "wrong-password"})
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))
	tok, err = svc.Signin(ctx, dto.SigninInput{Email: "NEW@example.com", Password: "password1"})
	require.NoError(t, err)
	claims2, err := tokens.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, claims2.UserID)
}

func TestAuthService_NaverCallback(t *testing.T) {
	naver := stubNaver{info: &auth.OAuthUserInfo{ID: "nv-1", Email: "nv@example.com", Nickname: "naver user"}}
	f, svc, _, tokens := newAuthFixture(t, naver)
	ctx := context.Background()

	first, err := svc.NaverCallback(ctx, "code")
	require.NoError(t, err)
	second, err := svc.NaverCallback(ctx, "code")
	require.NoError(t, err)

	c1, err := tokens.Parse(first.AccessToken)
	require.NoError(t, err)
	c2, err := tokens.Parse(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, c1.UserID, c2.UserID)

	a, err := f.accounts.GetByID(ctx, c1.UserID)
	require.NoError(t, err)
	assert.Equal(t, "naver", a.Provider)
	assert.Nil(t, a.PasswordHash)

	// OAuth 账号没有密码，不能用密码登录
	_, err = svc.Signin(ctx, dto.SigninInput{Email: "nv@example.com", Password: "anything"})
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))

	_, failing, _, _ := newAuthFixture(t, stubNaver{err: errors.New("denied")})
	_, err = failing.NaverCallback(ctx, "bad")
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))
	assert.Contains(t, svc.NaverAuthURL("xyz"), "state=xyz")
}

func TestAuthService_EmailLinksExistingAccount(t *testing.T) {
	naver := stubNaver{info: &auth.OAuthUserInfo{ID: "nv-2", Email: "alice@example.com"}}
	f, svc, _, tokens := newAuthFixture(t, naver)
	alice := testutil.SeedAccount(t, f.db, "alice")

	tok, err := svc.NaverCallback(context.Background(), "code")
	require.NoError(t, err)
	claims, err := tokens.Parse(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
}
