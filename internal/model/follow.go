package model

import "time"

// Follow 关注关系（Follower 关注 Followee）
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;uniqueIndex:ux_follow_pair;not null"`
	FolloweeID string `gorm:"type:varchar(36);index:idx_follow_followee;uniqueIndex:ux_follow_pair;not null"`
	// ux_follow_pair = (follower_id, followee_id)，避免重复关注
	Follower  Account `gorm:"foreignKey:FollowerID"`
	Followee  Account `gorm:"foreignKey:FolloweeID"`
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
