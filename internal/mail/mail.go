// Package mail 验证码邮件发送
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/config"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

// Sender 发送邮箱验证码
type Sender interface {
	SendVerificationCode(ctx context.Context, to string, code int) error
}

// New 按配置选择实现：ses 或 log
func New(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case "ses":
		return NewSESSender(cfg.Region, cfg.FromEmail)
	case "", "log":
		return LogSender{}, nil
	}
	return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
}

// SESSender 通过 AWS SES 发送
type SESSender struct {
	client    *ses.Client
	fromEmail string
}

func NewSESSender(region, fromEmail string) (*SESSender, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESSender{client: ses.NewFromConfig(cfg), fromEmail: fromEmail}, nil
}

func (s *SESSender) SendVerificationCode(ctx context.Context, to string, code int) error {
	subject := "Email verification code"
	text := fmt.Sprintf("Your verification code is %06d.", code)
	html := fmt.Sprintf("<p>Your verification code is <b>%06d</b>.</p>", code)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// LogSender 开发环境使用，只打日志
type LogSender struct{}

func (LogSender) SendVerificationCode(_ context.Context, to string, code int) error {
	logger.Info("verification code", zap.String("to", to), zap.Int("code", code))
	return nil
}
