package items

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"stash/internal/users"
)

// fakeRepository keeps items in memory keyed by id.
type fakeRepository struct {
	items map[uuid.UUID]*Item
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{items: make(map[uuid.UUID]*Item)}
}

func (f *fakeRepository) Create(ctx context.Context, item *Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (f *fakeRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]Item, int64, error) {
	var owned []Item
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			owned = append(owned, *item)
		}
	}
	total := int64(len(owned))

	if skip >= len(owned) {
		return nil, total, nil
	}
	owned = owned[skip:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, total, nil
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if title, ok := updates["title"].(string); ok {
		item.Title = title
	}
	if description, ok := updates["description"].(string); ok {
		item.Description = &description
	}
	return item, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func testUser(superuser bool) *users.User {
	return &users.User{
		ID:          uuid.New(),
		Email:       uuid.NewString() + "@example.com",
		IsActive:    true,
		IsSuperuser: superuser,
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, nil)
	owner := testUser(false)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, &CreateItemRequest{Title: "Grocery list"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.OwnerID != owner.ID {
		t.Errorf("owner = %s, want %s", created.OwnerID, owner.ID)
	}

	got, err := svc.GetByID(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != "Grocery list" {
		t.Errorf("title = %q, want %q", got.Title, "Grocery list")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepository(), nil)
	_, err := svc.GetByID(context.Background(), testUser(false), uuid.New())
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("GetByID = %v, want ErrItemNotFound", err)
	}
}

func TestOwnershipEnforcement(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, nil)
	owner := testUser(false)
	stranger := testUser(false)
	admin := testUser(true)
	ctx := context.Background()

	item, err := svc.Create(ctx, owner, &CreateItemRequest{Title: "Private notes"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	t.Run("stranger cannot read", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, stranger, item.ID); !errors.Is(err, ErrNotItemOwner) {
			t.Fatalf("GetByID = %v, want ErrNotItemOwner", err)
		}
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		title := "hijacked"
		_, err := svc.Update(ctx, stranger, item.ID, &UpdateItemRequest{Title: &title})
		if !errors.Is(err, ErrNotItemOwner) {
			t.Fatalf("Update = %v, want ErrNotItemOwner", err)
		}
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		if err := svc.Delete(ctx, stranger, item.ID); !errors.Is(err, ErrNotItemOwner) {
			t.Fatalf("Delete = %v, want ErrNotItemOwner", err)
		}
	})

	t.Run("superuser overrides ownership", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, admin, item.ID); err != nil {
			t.Fatalf("superuser GetByID returned error: %v", err)
		}
		title := "retitled by admin"
		if _, err := svc.Update(ctx, admin, item.ID, &UpdateItemRequest{Title: &title}); err != nil {
			t.Fatalf("superuser Update returned error: %v", err)
		}
	})
}

func TestUpdatePartial(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, nil)
	owner := testUser(false)
	ctx := context.Background()

	description := "original description"
	item, err := svc.Create(ctx, owner, &CreateItemRequest{Title: "Original", Description: &description})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	title := "Renamed"
	updated, err := svc.Update(ctx, owner, item.ID, &UpdateItemRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title = %q, want %q", updated.Title, "Renamed")
	}
	if updated.Description == nil || *updated.Description != "original description" {
		t.Error("nil fields in the request must leave existing values untouched")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, nil)
	owner := testUser(false)
	ctx := context.Background()

	item, err := svc.Create(ctx, owner, &CreateItemRequest{Title: "Short lived"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, owner, item.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(ctx, owner, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("GetByID after delete = %v, want ErrItemNotFound", err)
	}
	if err := svc.Delete(ctx, owner, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("second Delete = %v, want ErrItemNotFound", err)
	}
}

func TestListByOwner(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, nil)
	owner := testUser(false)
	other := testUser(false)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, owner, &CreateItemRequest{Title: "item"}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if _, err := svc.Create(ctx, other, &CreateItemRequest{Title: "not mine"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	list, total, err := svc.ListByOwner(ctx, owner.ID, ListQuery{Skip: 0, Limit: 3})
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(list) != 3 {
		t.Errorf("page size = %d, want 3", len(list))
	}

	list, total, err = svc.ListByOwner(ctx, owner.ID, ListQuery{Skip: 4, Limit: 3})
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(list) != 1 {
		t.Errorf("page size = %d, want 1", len(list))
	}
}
