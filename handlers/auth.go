package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/padraicbc/skyscore/middleware"
	"github.com/padraicbc/skyscore/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	credentials
	Role string `json:"role"`
}

// HashPasswordForUser validates username/password input and returns a bcrypt hash for storage.
func HashPasswordForUser(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// CreateUser creates or updates a judge/viewer/admin account. Admin only.
func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = models.RoleViewer
	}
	if !models.ValidRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be viewer, judge or admin")
	}

	hash, err := HashPasswordForUser(req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Password: hash,
		Role:     req.Role,
	}
	if err := h.store.SaveUser(c.Request().Context(), user); err != nil {
		return storeError("save user", err)
	}
	by, _ := c.Get("username").(string)
	h.log.Info("user saved", zap.String("username", user.Username), zap.String("role", user.Role), zap.String("by", by))

	return c.JSON(http.StatusOK, map[string]string{
		"username": user.Username,
		"role":     user.Role,
	})
}

// Signin validates credentials and returns a JWT token valid for 30 days.
func (h *Handler) Signin(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	creds.Username = strings.TrimSpace(creds.Username)

	user, err := h.store.User(c.Request().Context(), creds.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	role := user.Role
	if h.isAdmin(creds.Username) {
		role = models.RoleAdmin
	}

	expiresAt := time.Now().AddDate(0, 0, 30)
	claims := &mw.Claims{
		Username: creds.Username,
		UserHash: mw.UserHashFromUsername(creds.Username, h.JWTKey),
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.JWTKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"token": tokenString, "role": role})
}
