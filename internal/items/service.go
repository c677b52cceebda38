package items

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stash/internal/users"
	"stash/pkg/cache"
)

// ErrNotItemOwner marks access by a non-owner without superuser rights.
var ErrNotItemOwner = errors.New("not authorized to access this item")

// Cache keys. Pattern: stash:items:{operation}:{identifier}
const (
	cacheKeyItemDetail   = "stash:items:detail:uuid:"  // + item id
	cacheKeyItemsByOwner = "stash:items:owner:uuid:"   // + owner id + :skip:X:limit:Y
	cacheTTLItemDetail   = 10 * time.Minute
	cacheTTLItemList     = 5 * time.Minute
)

type Service interface {
	Create(ctx context.Context, owner *users.User, req *CreateItemRequest) (*Item, error)
	GetByID(ctx context.Context, actor *users.User, id uuid.UUID) (*Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Item, int64, error)
	Update(ctx context.Context, actor *users.User, id uuid.UUID, req *UpdateItemRequest) (*Item, error)
	Delete(ctx context.Context, actor *users.User, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService builds the item service. cacheService may be nil; caching is
// then skipped entirely.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) Create(ctx context.Context, owner *users.User, req *CreateItemRequest) (*Item, error) {
	item := &Item{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     owner.ID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateOwner(ctx, owner.ID)
	return item, nil
}

func (s *service) GetByID(ctx context.Context, actor *users.User, id uuid.UUID) (*Item, error) {
	var item Item
	key := cacheKeyItemDetail + id.String()

	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &item); err == nil {
			return s.authorize(&item, actor)
		}
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a failed cache write never fails the request.
		_ = s.cache.Set(ctx, key, found, cacheTTLItemDetail)
	}
	return s.authorize(found, actor)
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Item, int64, error) {
	type page struct {
		Items []Item `json:"items"`
		Total int64  `json:"total"`
	}

	key := fmt.Sprintf("%s%s:skip:%d:limit:%d", cacheKeyItemsByOwner, ownerID, query.Skip, query.Limit)

	if s.cache != nil {
		var cached page
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
	}

	list, total, err := s.repo.GetAllByOwner(ctx, ownerID, query.Skip, query.Limit)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, page{Items: list, Total: total}, cacheTTLItemList)
	}
	return list, total, nil
}

func (s *service) Update(ctx context.Context, actor *users.User, id uuid.UUID, req *UpdateItemRequest) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(item, actor); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, item)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor *users.User, id uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.authorize(item, actor); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, item)
	return nil
}

// authorize enforces the ownership rule: only the owner or a superuser may
// touch an item.
func (s *service) authorize(item *Item, actor *users.User) (*Item, error) {
	if item.OwnerID != actor.ID && !actor.IsSuperuser {
		return nil, ErrNotItemOwner
	}
	return item, nil
}

func (s *service) invalidate(ctx context.Context, item *Item) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, cacheKeyItemDetail+item.ID.String())
	s.invalidateOwner(ctx, item.OwnerID)
}

func (s *service) invalidateOwner(ctx context.Context, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, cacheKeyItemsByOwner+ownerID.String()+"*")
}
