package model

import "time"

// Account 用户账号；OAuth 账号没有密码
type Account struct {
	ID           string    `json:"idx" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Nickname     string    `json:"nickname" gorm:"type:varchar(64);index;not null"`
	ProfileImg   string    `json:"profileImg" gorm:"type:varchar(512)"`
	PasswordHash *string   `json:"-" gorm:"type:varchar(255)"`
	Provider     string    `json:"provider,omitempty" gorm:"type:varchar(32);index:idx_account_provider"`
	ProviderKey  string    `json:"-" gorm:"type:varchar(128);index:idx_account_provider"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }

// Block 屏蔽关系（Blocker 屏蔽了 Blocked）
type Block struct {
	ID        uint   `gorm:"primaryKey"`
	BlockerID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_block_pair"`
	BlockedID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_block_pair;index"`
	CreatedAt time.Time
}

func (Block) TableName() string { return "blocks" }

// EmailVerification 邮箱验证码，每个邮箱只保留最新一条
type EmailVerification struct {
	Email      string `gorm:"primaryKey;type:varchar(255)"`
	Code       int    `gorm:"not null"`
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

func (EmailVerification) TableName() string { return "email_verifications" }
