package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// UserStore is the persistence surface the registration endpoint
// needs. *repository.UserRepo implements it.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string, role model.Role) (uint64, error)
}

// EventPublisher forwards a registration event to the message broker.
// Publishing is best effort; a nil publisher disables it.
type EventPublisher func(ctx context.Context, ev queue.UserRegisteredEvent) error

// UserHandler serves account registration.
type UserHandler struct {
	Users   UserStore
	Hasher  auth.PasswordHasher
	Publish EventPublisher
}

func NewUserHandler(users UserStore, hasher auth.PasswordHasher, publish EventPublisher) *UserHandler {
	return &UserHandler{Users: users, Hasher: hasher, Publish: publish}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registeredUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register creates an account. The password is hashed before anything
// touches the store; the response repeats only public fields, never
// the hash or a TOTP secret. A uniqueness violation on username
// or email is answered 409 and leaves the existing account untouched.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	role := model.ParseRole(strings.ToLower(strings.TrimSpace(req.Role)))

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	if h.Publish != nil {
		ev := queue.NewUserRegisteredEvent(uid, req.Username, req.Email, string(role))
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Publish(ctx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created",
		"user":    registeredUser{Username: req.Username, Email: req.Email, Role: string(role)},
	})
}
