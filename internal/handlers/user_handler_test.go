package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/marius-hi/go-invest/internal/errors"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/services"
)

type mockUserService struct {
	createUserFn  func(email, name string) (*models.User, error)
	getUserByIDFn func(id uint) (*models.User, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(email, name string) (*models.User, error) {
	return m.createUserFn(email, name)
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func newUserRouter(h *UserHandler) *gin.Engine {
	router := gin.New()
	router.POST("/users", h.CreateUser)
	router.GET("/users/:id", h.GetUser)
	return router
}

func TestCreateUserHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(email, name string) (*models.User, error) {
				user := &models.User{Email: email, Name: name}
				user.ID = 1
				return user, nil
			},
		}
		router := newUserRouter(NewUserHandler(users))

		w := performRequest(router, http.MethodPost, "/users",
			`{"email":"alice@example.com","name":"Alice"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects_bad_email", func(t *testing.T) {
		router := newUserRouter(NewUserHandler(&mockUserService{}))

		w := performRequest(router, http.MethodPost, "/users", `{"email":"not-an-email"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("duplicate_maps_to_conflict", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(email, name string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		router := newUserRouter(NewUserHandler(users))

		w := performRequest(router, http.MethodPost, "/users", `{"email":"alice@example.com"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestGetUserHandler(t *testing.T) {
	users := &mockUserService{
		getUserByIDFn: func(id uint) (*models.User, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	router := newUserRouter(NewUserHandler(users))

	w := performRequest(router, http.MethodGet, "/users/42", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
