package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/pkg/errcode"
)

// PageQuery 分页参数，page 从 1 开始
type PageQuery struct {
	Page int
	Size int
}

func (p PageQuery) validate() error {
	if p.Page < 1 {
		return errcode.Validation("page must be >= 1")
	}
	if p.Size < 1 {
		return errcode.Validation("size must be > 0")
	}
	return nil
}

func (p PageQuery) offset() int { return (p.Page - 1) * p.Size }

// totalPages = ceil(count / size)
func totalPages(count int64, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return int((count + int64(size) - 1) / int64(size))
}

// ResolveTimeframe 把 1D/7D/1M/1Y/all 换算为起始时间；all 返回 ok=false，表示不限制
func ResolveTimeframe(tf string, now time.Time) (since time.Time, ok bool, err error) {
	today := midnight(now)
	switch strings.TrimSpace(tf) {
	case "", "all":
		return time.Time{}, false, nil
	case "1D":
		return today, true, nil
	case "7D":
		return today.AddDate(0, 0, -6), true, nil
	case "1M":
		return today.AddDate(0, -1, 0), true, nil
	case "1Y":
		return today.AddDate(-1, 0, 0), true, nil
	}
	return time.Time{}, false, errcode.Validation("timeframe must be one of 1D, 7D, 1M, 1Y, all")
}

// ResolveWindow 把 1D/7D/30D 换算为热榜窗口天数，默认 7D
func ResolveWindow(w string) (int, error) {
	switch strings.TrimSpace(w) {
	case "1D":
		return 1, nil
	case "", "7D":
		return 7, nil
	case "30D":
		return 30, nil
	}
	return 0, errcode.Validation("window must be one of 1D, 7D, 30D")
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
