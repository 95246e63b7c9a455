package model

import (
	"time"

	"gorm.io/gorm"
)

// State 软删除状态：Active 或 Deleted{At}
type State struct {
	deletedAt time.Time
	deleted   bool
}

func stateOf(d gorm.DeletedAt) State {
	if !d.Valid {
		return State{}
	}
	return State{deletedAt: d.Time, deleted: true}
}

func (s State) Active() bool { return !s.deleted }

// Deleted 返回删除时间；未删除时 ok 为 false
func (s State) Deleted() (at time.Time, ok bool) { return s.deletedAt, s.deleted }
