package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherd/internal/models"
	"weatherd/internal/repository"
	"weatherd/internal/service"
)

type fakeAuthService struct {
	registerErr error
	loginErr    error
	token       string
}

func (f *fakeAuthService) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 1, Username: username, Email: email}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func newAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(svc, logrus.New())
	router.POST("/api/register", h.Register)
	router.POST("/api/login", h.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister_Created(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{})

	w := postJSON(t, router, "/api/register", gin.H{
		"username": "johndoe",
		"email":    "john@example.com",
		"password": "secret-pass1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "johndoe", resp.Username)
}

func TestRegister_ValidationErrors(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{})

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing fields", gin.H{"username": "johndoe"}},
		{"short username", gin.H{"username": "ab", "email": "john@example.com", "password": "secret-pass1"}},
		{"bad email", gin.H{"username": "johndoe", "email": "nope", "password": "secret-pass1"}},
		{"forbidden password char", gin.H{"username": "johndoe", "email": "john@example.com", "password": "secret#pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{registerErr: repository.ErrUsernameTaken})

	w := postJSON(t, router, "/api/register", gin.H{
		"username": "johndoe",
		"email":    "john@example.com",
		"password": "secret-pass1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{token: "signed-token"})

	w := postJSON(t, router, "/api/login", gin.H{
		"identifier": "johndoe",
		"password":   "secret-pass1",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{loginErr: service.ErrInvalidCredentials})

	w := postJSON(t, router, "/api/login", gin.H{
		"identifier": "johndoe",
		"password":   "wrong-pass1",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Invalid credentials"}`, w.Body.String())
}
