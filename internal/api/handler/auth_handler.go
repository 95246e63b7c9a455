package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/pkg/response"
)

const oauthStateCookie = "oauth_state"

// SendEmailCode 发送邮箱验证码
// @Summary 发送邮箱验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.SendEmailInput true "邮箱"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/auth/email/send [post]
func (h *Handler) SendEmailCode(c *gin.Context) {
	var req dto.SendEmailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.authService.SendEmailCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// VerifyEmail 校验邮箱验证码
// @Summary 校验邮箱验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.VerifyEmailInput true "邮箱与验证码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/email/verify [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.authService.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Signup 注册，邮箱须先通过验证
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.SignupInput true "注册信息"
// @Success 201 {object} response.Response{data=dto.TokenResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req dto.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// Signin 登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.SigninInput true "登录信息"
// @Success 200 {object} response.Response{data=dto.TokenResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var req dto.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.authService.Signin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

// NaverLogin 跳转到 Naver 授权页
// @Summary Naver 登录
// @Tags 认证
// @Success 302
// @Router /api/v1/auth/naver [get]
func (h *Handler) NaverLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, h.authService.NaverAuthURL(state))
}

// NaverCallback Naver 回调，校验 state 后签发令牌
// @Summary Naver 回调
// @Tags 认证
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "state"
// @Success 200 {object} response.Response{data=dto.TokenResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/naver/callback [get]
func (h *Handler) NaverCallback(c *gin.Context) {
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		response.BadRequest(c, "invalid oauth state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "missing code")
		return
	}
	token, err := h.authService.NaverCallback(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}
