package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/argon2id"
	"platefeed/internal/config"
	"platefeed/internal/database"
	"platefeed/internal/env"
	"platefeed/internal/jwt"
	"platefeed/internal/log"
)

const testSecret = "test-secret-32-bytes-long-123456"

func newRequest(method, target string, body io.Reader, mockDB *database.MockQuerier) *http.Request {
	secret := config.AppSecretValue(testSecret)
	req := httptest.NewRequest(method, target, body)

	ctx := req.Context()
	ctx = requestid.InjectRequestID(ctx, 12345)
	ctx = env.WithCtx(ctx, &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
		Config: config.Config{
			AppSecret: config.AppSecret{Value: &secret, Version: "1"},
		},
	})
	return req.WithContext(ctx)
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) apiError.ErrorCode {
	t.Helper()
	var body apiError.Error
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Code
}

func TestHandleTokenLogin(t *testing.T) {
	const loginPassword = "Str0ng!Passw0rd#77"

	hash, err := argon2id.EncodeHash(loginPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := database.User{
		ID:           123,
		Email:        "masha@example.com",
		Username:     "masha",
		PasswordHash: hash,
		Role:         database.RoleUser,
	}

	tests := []struct {
		name       string
		body       string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "logs in",
			body: `{"email": "masha@example.com", "password": "` + loginPassword + `"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByEmail(gomock.Any(), "masha@example.com").Return(user, nil)
				db.CreateAuthToken(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg database.CreateAuthTokenParams) error {
						if arg.UserID != 123 {
							t.Errorf("UserID = %d, want 123", arg.UserID)
						}
						if arg.TokenID == "" {
							t.Error("TokenID is empty")
						}
						if !arg.ExpiresAt.After(time.Now()) {
							t.Errorf("ExpiresAt = %v, want future", arg.ExpiresAt)
						}
						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "wrong password",
			body: `{"email": "masha@example.com", "password": "Wr0ng!Passw0rd#9"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByEmail(gomock.Any(), "masha@example.com").Return(user, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name: "unknown email",
			body: `{"email": "nobody@example.com", "password": "` + loginPassword + `"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByEmail(gomock.Any(), "nobody@example.com").
					Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name:       "missing password",
			body:       `{"email": "masha@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.BadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			if tt.setup != nil {
				tt.setup(mockDB.EXPECT())
			}

			req := newRequest(http.MethodPost, "/api/auth/token/login", strings.NewReader(tt.body), mockDB)
			rec := httptest.NewRecorder()
			HandleTokenLogin(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := decodeErrorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
				return
			}

			var resp TokenLoginResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.AuthToken == "" {
				t.Fatal("auth_token is empty")
			}
			parsed, err := jwt.ValidateJWT(resp.AuthToken, "1", []byte(testSecret))
			if err != nil {
				t.Fatalf("issued token does not validate: %v", err)
			}
			subject, err := parsed.Claims.GetSubject()
			if err != nil {
				t.Fatalf("failed to read subject claim: %v", err)
			}
			if subject != "123" {
				t.Errorf("subject = %q, want %q", subject, "123")
			}
		})
	}
}

func TestHandleTokenLogout(t *testing.T) {
	tests := []struct {
		name       string
		deleted    bool
		wantStatus int
	}{
		{name: "revokes token", deleted: true, wantStatus: http.StatusNoContent},
		{name: "already revoked", deleted: false, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().DeleteAuthToken(gomock.Any(), "01ARZ3NDEKTSV4RRFFQ69G5FAV").
				Return(tt.deleted, nil)

			req := newRequest(http.MethodPost, "/api/auth/token/logout", nil, mockDB)
			req = req.WithContext(token.TokenIDWithCtx(req.Context(), "01ARZ3NDEKTSV4RRFFQ69G5FAV"))
			rec := httptest.NewRecorder()
			HandleTokenLogout(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleTokenLogout_NoTokenInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	req := newRequest(http.MethodPost, "/api/auth/token/logout", nil, mockDB)
	rec := httptest.NewRecorder()
	HandleTokenLogout(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
