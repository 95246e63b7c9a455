package service

import (
	"context"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

// RelationshipService 关注与屏蔽关系
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	Block(ctx context.Context, fromUserID, toUserID string) error
	Unblock(ctx context.Context, fromUserID, toUserID string) error
	// ListFollowing/ListFollowers 对 viewerID 标注 isMyFollowing
	ListFollowing(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.UserPage, error)
	ListFollowers(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.UserPage, error)
	// MarkFollowing 原地填充 IsMyFollowing
	MarkFollowing(ctx context.Context, viewerID string, users []dto.UserSummary) error
}

type relationshipService struct {
	accounts repository.AccountRepository
	follows  repository.FollowRepository
	blocks   repository.BlockRepository
}

func NewRelationshipService(accounts repository.AccountRepository, follows repository.FollowRepository, blocks repository.BlockRepository) RelationshipService {
	return &relationshipService{accounts: accounts, follows: follows, blocks: blocks}
}

func (s *relationshipService) target(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return errcode.Validation("cannot target self")
	}
	ok, err := s.accounts.Exists(ctx, toUserID)
	if err != nil {
		return errcode.Internal("check account", err)
	}
	if !ok {
		return errcode.NotFound("User")
	}
	return nil
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.target(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if err := s.follows.Create(ctx, fromUserID, toUserID); err != nil {
		return errcode.Internal("follow", err)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.follows.Delete(ctx, fromUserID, toUserID); err != nil {
		return errcode.Internal("unfollow", err)
	}
	return nil
}

func (s *relationshipService) Block(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.target(ctx, fromUserID, toUserID); err != nil {
		return err
	}
	if err := s.blocks.Create(ctx, fromUserID, toUserID); err != nil {
		return errcode.Internal("block", err)
	}
	return nil
}

func (s *relationshipService) Unblock(ctx context.Context, fromUserID, toUserID string) error {
	if err := s.blocks.Delete(ctx, fromUserID, toUserID); err != nil {
		return errcode.Internal("unblock", err)
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.UserPage, error) {
	return s.list(ctx, viewerID, userID, p, s.follows.ListFollowing)
}

func (s *relationshipService) ListFollowers(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.UserPage, error) {
	return s.list(ctx, viewerID, userID, p, s.follows.ListFollowers)
}

func (s *relationshipService) list(
	ctx context.Context,
	viewerID, userID string,
	p PageQuery,
	load func(ctx context.Context, userID string, offset, limit int) ([]model.Account, int64, error),
) (*dto.UserPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	ok, err := s.accounts.Exists(ctx, userID)
	if err != nil {
		return nil, errcode.Internal("check account", err)
	}
	if !ok {
		return nil, errcode.NotFound("User")
	}
	rows, total, err := load(ctx, userID, p.offset(), p.Size)
	if err != nil {
		return nil, errcode.Internal("list follows", err)
	}
	users := make([]dto.UserSummary, 0, len(rows))
	for _, a := range rows {
		users = append(users, dto.NewUserSummary(a))
	}
	if err := s.MarkFollowing(ctx, viewerID, users); err != nil {
		return nil, err
	}
	return &dto.UserPage{TotalPage: totalPages(total, p.Size), Users: users}, nil
}

func (s *relationshipService) MarkFollowing(ctx context.Context, viewerID string, users []dto.UserSummary) error {
	if viewerID == "" || len(users) == 0 {
		return nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.Idx
	}
	followed, err := s.follows.FollowedAmong(ctx, viewerID, ids)
	if err != nil {
		return errcode.Internal("load follow status", err)
	}
	set := make(map[string]struct{}, len(followed))
	for _, id := range followed {
		set[id] = struct{}{}
	}
	for i := range users {
		_, ok := set[users[i].Idx]
		users[i].IsMyFollowing = &ok
	}
	return nil
}
