package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/d60-Lab/review-feed/config"
)

const naverProfileURL = "https://openapi.naver.com/v1/nid/me"

var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

// OAuthUserInfo 第三方返回的用户信息
type OAuthUserInfo struct {
	ID         string
	Email      string
	Nickname   string
	ProfileImg string
}

type naverProfile struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

// NaverClient Naver OAuth2 授权码流程
type NaverClient struct {
	cfg        *oauth2.Config
	profileURL string
}

func NewNaverClient(c config.OAuthProviderConfig) *NaverClient {
	return &NaverClient{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     naverEndpoint,
		},
		profileURL: naverProfileURL,
	}
}

func (n *NaverClient) AuthCodeURL(state string) string {
	return n.cfg.AuthCodeURL(state)
}

// Exchange 用授权码换取 token 并拉取用户资料
func (n *NaverClient) Exchange(ctx context.Context, code string) (*OAuthUserInfo, error) {
	token, err := n.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	resp, err := n.cfg.Client(ctx, token).Get(n.profileURL)
	if err != nil {
		return nil, fmt.Errorf("get naver profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get naver profile: status %d", resp.StatusCode)
	}

	var p naverProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode naver profile: %w", err)
	}
	if p.Response.ID == "" || p.Response.Email == "" {
		return nil, fmt.Errorf("naver profile incomplete: %s", p.Message)
	}
	return &OAuthUserInfo{
		ID:         p.Response.ID,
		Email:      p.Response.Email,
		Nickname:   p.Response.Nickname,
		ProfileImg: p.Response.ProfileImage,
	}, nil
}
