package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/review-feed/internal/auth"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/mail"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

const providerNaver = "naver"

// OAuthProvider 第三方授权码登录
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.OAuthUserInfo, error)
}

type AuthService interface {
	SendEmailCode(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, email string, code int) error
	Signup(ctx context.Context, in dto.SignupInput) (*dto.TokenResponse, error)
	Signin(ctx context.Context, in dto.SigninInput) (*dto.TokenResponse, error)
	NaverAuthURL(state string) string
	NaverCallback(ctx context.Context, code string) (*dto.TokenResponse, error)
}

type authService struct {
	accounts      repository.AccountRepository
	verifications repository.EmailVerificationRepository
	mailer        mail.Sender
	tokens        auth.TokenService
	naver         OAuthProvider
}

func NewAuthService(
	accounts repository.AccountRepository,
	verifications repository.EmailVerificationRepository,
	mailer mail.Sender,
	tokens auth.TokenService,
	naver OAuthProvider,
) AuthService {
	return &authService{accounts: accounts, verifications: verifications, mailer: mailer, tokens: tokens, naver: naver}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// randomCode 6 位数字验证码
func randomCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

func (s *authService) SendEmailCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return errcode.Conflict("Duplicated Email")
	} else if !isNotFound(err) {
		return errcode.Internal("check email", err)
	}
	code, err := randomCode()
	if err != nil {
		return errcode.Internal("generate code", err)
	}
	if err := s.verifications.Upsert(ctx, email, code); err != nil {
		return errcode.Internal("save code", err)
	}
	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		return errcode.Internal("send code", err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, email string, code int) error {
	email = normalizeEmail(email)
	v, err := s.verifications.Get(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return errcode.NotFound("Email")
		}
		return errcode.Internal("load code", err)
	}
	if v.VerifiedAt != nil {
		return errcode.Conflict("Already Verified Email")
	}
	if v.Code != code {
		return errcode.NotFound("Email")
	}
	if err := s.verifications.MarkVerified(ctx, email, time.Now()); err != nil {
		return errcode.Internal("mark verified", err)
	}
	return nil
}

func (s *authService) Signup(ctx context.Context, in dto.SignupInput) (*dto.TokenResponse, error) {
	email := normalizeEmail(in.Email)
	v, err := s.verifications.Get(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, errcode.Internal("load verification", err)
	}
	if v == nil || v.VerifiedAt == nil {
		return nil, errcode.Unauthorized("Unverified Email")
	}
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, errcode.Conflict("Duplicated Email")
	} else if !isNotFound(err) {
		return nil, errcode.Internal("check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errcode.Internal("hash password", err)
	}
	h := string(hash)
	a := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Nickname:     in.Nickname,
		ProfileImg:   in.ProfileImg,
		PasswordHash: &h,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, errcode.Internal("create account", err)
	}
	logger.Info("account created", zap.String("user_id", a.ID))
	return s.issue(a)
}

func (s *authService) Signin(ctx context.Context, in dto.SigninInput) (*dto.TokenResponse, error) {
	a, err := s.accounts.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, errcode.Unauthorized("Invalid email or password")
		}
		return nil, errcode.Internal("load account", err)
	}
	if a.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*a.PasswordHash), []byte(in.Password)) != nil {
		return nil, errcode.Unauthorized("Invalid email or password")
	}
	return s.issue(a)
}

func (s *authService) NaverAuthURL(state string) string {
	return s.naver.AuthCodeURL(state)
}

// NaverCallback 先按 provider id 查找，再按邮箱合并账号，都没有则新建
func (s *authService) NaverCallback(ctx context.Context, code string) (*dto.TokenResponse, error) {
	info, err := s.naver.Exchange(ctx, code)
	if err != nil {
		logger.Warn("naver exchange failed", zap.Error(err))
		return nil, errcode.Unauthorized("naver login failed")
	}

	a, err := s.accounts.GetByProvider(ctx, providerNaver, info.ID)
	if err == nil {
		return s.issue(a)
	}
	if !isNotFound(err) {
		return nil, errcode.Internal("load account", err)
	}

	email := normalizeEmail(info.Email)
	a, err = s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return s.issue(a)
	}
	if !isNotFound(err) {
		return nil, errcode.Internal("load account", err)
	}

	nickname := info.Nickname
	if nickname == "" {
		nickname = strings.SplitN(email, "@", 2)[0]
	}
	a = &model.Account{
		ID:          uuid.New().String(),
		Email:       email,
		Nickname:    nickname,
		ProfileImg:  info.ProfileImg,
		Provider:    providerNaver,
		ProviderKey: info.ID,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, errcode.Internal("create account", err)
	}
	logger.Info("account created from oauth", zap.String("user_id", a.ID), zap.String("provider", providerNaver))
	return s.issue(a)
}

func (s *authService) issue(a *model.Account) (*dto.TokenResponse, error) {
	token, _, err := s.tokens.Sign(a.ID, a.Email)
	if err != nil {
		return nil, errcode.Internal("sign token", err)
	}
	return &dto.TokenResponse{AccessToken: token}, nil
}
