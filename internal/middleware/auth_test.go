package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newAuthRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", guard, func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok, "viewer": middleware.ViewerID(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(*mocks.MockAuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown scheme",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "bearer token",
			header: "Bearer good",
			setupMock: func(m *mocks.MockAuthService) {
				m.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 7, Username: "cook"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"authenticated":true,"user_id":7,"viewer":7}`,
		},
		{
			name:   "token scheme",
			header: "Token good",
			setupMock: func(m *mocks.MockAuthService) {
				m.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 3}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"authenticated":true,"user_id":3,"viewer":3}`,
		},
		{
			name:   "revoked token",
			header: "Bearer old",
			setupMock: func(m *mocks.MockAuthService) {
				m.On("ValidateToken", mock.Anything, "old").Return(nil, errors.New("token has been revoked"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			if tt.setupMock != nil {
				tt.setupMock(auth)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter(middleware.AuthMiddleware(auth)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			auth.AssertExpectations(t)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous passes through", func(t *testing.T) {
		auth := new(mocks.MockAuthService)
		w := httptest.NewRecorder()
		newAuthRouter(middleware.OptionalAuth(auth)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"authenticated":false,"user_id":0,"viewer":0}`, w.Body.String())
		auth.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("bad token is still rejected", func(t *testing.T) {
		auth := new(mocks.MockAuthService)
		auth.On("ValidateToken", mock.Anything, "bad").Return(nil, errors.New("invalid token"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		newAuthRouter(middleware.OptionalAuth(auth)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
