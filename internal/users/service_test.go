package users

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// fakeRepository keeps users in memory keyed by id.
type fakeRepository struct {
	users map[uuid.UUID]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[uuid.UUID]*User)}
}

func (f *fakeRepository) add(user *User) {
	f.users[user.ID] = user
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetAll(ctx context.Context, skip, limit int) ([]User, int64, error) {
	var all []User
	for _, user := range f.users {
		all = append(all, *user)
	}
	total := int64(len(all))

	if skip >= len(all) {
		return nil, total, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if fullName, ok := updates["full_name"].(string); ok {
		user.FullName = &fullName
	}
	if hashed, ok := updates["hashed_password"].(string); ok {
		user.HashedPassword = hashed
	}
	if isActive, ok := updates["is_active"].(bool); ok {
		user.IsActive = isActive
	}
	if isSuperuser, ok := updates["is_superuser"].(bool); ok {
		user.IsSuperuser = isSuperuser
	}
	return user, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, user := range f.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func fakeHash(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	alice := &User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
	bob := &User{ID: uuid.New(), Email: "bob@example.com", IsActive: true}
	repo.add(alice)
	repo.add(bob)

	svc := NewService(repo, fakeHash)
	ctx := context.Background()

	t.Run("rehashes password", func(t *testing.T) {
		password := "new-password"
		updated, err := svc.Update(ctx, alice.ID, &UpdateUserRequest{Password: &password})
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if updated.HashedPassword != "hashed:new-password" {
			t.Errorf("stored password = %q, want hash of the new password", updated.HashedPassword)
		}
	})

	t.Run("rejects email already in use", func(t *testing.T) {
		email := "bob@example.com"
		_, err := svc.Update(ctx, alice.ID, &UpdateUserRequest{Email: &email})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("Update = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("keeping own email is not a conflict", func(t *testing.T) {
		email := "alice@example.com"
		if _, err := svc.Update(ctx, alice.ID, &UpdateUserRequest{Email: &email}); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
	})

	t.Run("toggles is_active", func(t *testing.T) {
		inactive := false
		updated, err := svc.Update(ctx, alice.ID, &UpdateUserRequest{IsActive: &inactive})
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if updated.IsActive {
			t.Error("is_active update not applied")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), &UpdateUserRequest{})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Update = %v, want ErrUserNotFound", err)
		}
	})
}

func TestUpdateCannotGrantSuperuser(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	mallory := &User{ID: uuid.New(), Email: "mallory@example.com", IsActive: true}
	repo.add(mallory)

	svc := NewService(repo, fakeHash)

	// Request bodies may carry arbitrary extra fields; privilege must not
	// be one a caller can set through the update endpoint.
	var req UpdateUserRequest
	body := []byte(`{"full_name": "Mallory", "is_superuser": true}`)
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}

	updated, err := svc.Update(context.Background(), mallory.ID, &req)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.IsSuperuser {
		t.Fatal("update request body granted the superuser flag")
	}
	if updated.FullName == nil || *updated.FullName != "Mallory" {
		t.Error("legitimate fields in the same request were dropped")
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	alice := &User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
	repo.add(alice)

	svc := NewService(repo, fakeHash)
	ctx := context.Background()

	if err := svc.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(ctx, alice.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetByID after delete = %v, want ErrUserNotFound", err)
	}
	if err := svc.Delete(ctx, alice.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("second Delete = %v, want ErrUserNotFound", err)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	for i := 0; i < 4; i++ {
		repo.add(&User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", IsActive: true})
	}

	svc := NewService(repo, fakeHash)

	list, total, err := svc.List(context.Background(), ListQuery{Skip: 0, Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(list) != 2 {
		t.Errorf("page size = %d, want 2", len(list))
	}
}
