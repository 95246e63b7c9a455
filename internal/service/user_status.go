package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/repository"
)

// UserStatus 当前用户与某条评测的关系
type UserStatus struct {
	IsMyLike     bool `json:"isMyLike"`
	IsMyDislike  bool `json:"isMyDislike"`
	IsMyBookmark bool `json:"isMyBookmark"`
	IsMyBlock    bool `json:"isMyBlock"` // 当前用户屏蔽了作者
}

// UserStatusService 在分页结果上叠加用户状态，不改变顺序和总数
type UserStatusService struct {
	reactions repository.ReactionRepository
	blocks    repository.BlockRepository
	reviews   repository.ReviewRepository
}

func NewUserStatusService(reactions repository.ReactionRepository, blocks repository.BlockRepository, reviews repository.ReviewRepository) *UserStatusService {
	return &UserStatusService{reactions: reactions, blocks: blocks, reviews: reviews}
}

// GetUserStatus 返回每条评测的状态；缺失的条目按全 false 处理
func (s *UserStatusService) GetUserStatus(ctx context.Context, viewerID string, reviewIDs []uint) (map[uint]UserStatus, error) {
	if viewerID == "" || len(reviewIDs) == 0 {
		return map[uint]UserStatus{}, nil
	}
	authors, err := s.reviews.AuthorsOf(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("load review authors: %w", err)
	}
	return s.statusFor(ctx, viewerID, reviewIDs, authors)
}

func (s *UserStatusService) statusFor(ctx context.Context, viewerID string, reviewIDs []uint, authors map[uint]string) (map[uint]UserStatus, error) {
	out := make(map[uint]UserStatus, len(reviewIDs))
	for _, id := range reviewIDs {
		out[id] = UserStatus{}
	}

	mark := func(kind repository.ReactionKind, set func(*UserStatus)) error {
		ids, err := s.reactions.ReviewIDsWith(ctx, kind, viewerID, reviewIDs)
		if err != nil {
			return fmt.Errorf("load %s status: %w", kind, err)
		}
		for _, id := range ids {
			st := out[id]
			set(&st)
			out[id] = st
		}
		return nil
	}
	if err := mark(repository.ReactionLike, func(st *UserStatus) { st.IsMyLike = true }); err != nil {
		return nil, err
	}
	if err := mark(repository.ReactionDislike, func(st *UserStatus) { st.IsMyDislike = true }); err != nil {
		return nil, err
	}
	if err := mark(repository.ReactionBookmark, func(st *UserStatus) { st.IsMyBookmark = true }); err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(authors))
	seen := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		authorIDs = append(authorIDs, a)
	}
	blocked, err := s.blocks.BlockedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load block status: %w", err)
	}
	blockedSet := make(map[string]struct{}, len(blocked))
	for _, b := range blocked {
		blockedSet[b] = struct{}{}
	}
	for id, author := range authors {
		if _, ok := blockedSet[author]; ok {
			st := out[id]
			st.IsMyBlock = true
			out[id] = st
		}
	}
	return out, nil
}

// Decorate 原地填充 IsMy* 字段；匿名用户直接跳过
func (s *UserStatusService) Decorate(ctx context.Context, viewerID string, items []dto.ReviewResponse) error {
	if viewerID == "" || len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	authors := make(map[uint]string, len(items))
	for i, it := range items {
		ids[i] = it.Idx
		authors[it.Idx] = it.User.Idx
	}
	statuses, err := s.statusFor(ctx, viewerID, ids, authors)
	if err != nil {
		return err
	}
	for i := range items {
		st := statuses[items[i].Idx]
		items[i].IsMyLike = st.IsMyLike
		items[i].IsMyDislike = st.IsMyDislike
		items[i].IsMyBookmark = st.IsMyBookmark
		items[i].IsMyBlock = st.IsMyBlock
	}
	return nil
}
