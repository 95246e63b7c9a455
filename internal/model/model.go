package model

// All 需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Block{},
		&EmailVerification{},
		&Follow{},
		&Review{},
		&Tag{},
		&ReviewImage{},
		&ReviewLike{},
		&ReviewDislike{},
		&ReviewBookmark{},
		&Comment{},
		&Notification{},
		&NotificationOutbox{},
	}
}
