package items

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stash/internal/auth"
	"stash/internal/users"
)

func TestControllerPrincipalHandling(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	ctrl := NewController(NewService(newFakeRepository(), nil))

	t.Run("missing principal rejected", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/items", nil)

		ctrl.ListItems(c)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("principal stored by the auth middleware is honored", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"title": "Notebook"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(auth.ContextUserKey, &users.User{ID: uuid.New(), IsActive: true})

		ctrl.CreateItem(c)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
		}
	})
}
