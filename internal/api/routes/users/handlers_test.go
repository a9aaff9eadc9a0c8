package users

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/api/view"
	"platefeed/internal/argon2id"
	"platefeed/internal/database"
	"platefeed/internal/env"
	"platefeed/internal/log"
)

// newRequest builds a request with the environment, request id, user id
// and chi {id} param attached, the way the router middleware would.
func newRequest(method, target string, body io.Reader, mockDB *database.MockQuerier, userID int64, pathID string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	ctx := req.Context()
	ctx = requestid.InjectRequestID(ctx, 12345)
	if userID != 0 {
		ctx = token.UserIDWithCtx(ctx, userID)
	}
	ctx = env.WithCtx(ctx, &env.Env{
		Logger:   log.NullLogger(),
		Database: &database.Database{Querier: mockDB},
	})

	if pathID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
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

func TestHandleRegisterUser(t *testing.T) {
	const validBody = `{
		"email": "masha@example.com",
		"username": "masha",
		"first_name": "Мария",
		"last_name": "Иванова",
		"password": "Str0ng!Passw0rd#77"
	}`

	uniqueViolation := func(constraint string) *pgconn.PgError {
		return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
	}

	tests := []struct {
		name       string
		body       string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "registers a user",
			body: validBody,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg database.CreateUserParams) (int64, error) {
						if arg.Email != "masha@example.com" || arg.Username != "masha" {
							t.Errorf("unexpected params: %+v", arg)
						}
						if arg.Role != database.RoleUser {
							t.Errorf("Role = %v, want RoleUser", arg.Role)
						}
						if arg.PasswordHash == "" || strings.Contains(arg.PasswordHash, "Str0ng!") {
							t.Errorf("password was not hashed: %q", arg.PasswordHash)
						}
						return 42, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "username taken",
			body: validBody,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.CreateUser(gomock.Any(), gomock.Any()).
					Return(int64(0), uniqueViolation("users_username_key"))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiError.UsernameConflict,
		},
		{
			name: "email taken",
			body: validBody,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.CreateUser(gomock.Any(), gomock.Any()).
					Return(int64(0), uniqueViolation("users_email_key"))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiError.EmailConflict,
		},
		{
			name: "weak password",
			body: `{
				"email": "masha@example.com",
				"username": "masha",
				"first_name": "Мария",
				"last_name": "Иванова",
				"password": "password"
			}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiError.WeakPassword,
		},
		{
			name: "missing email",
			body: `{
				"username": "masha",
				"first_name": "Мария",
				"last_name": "Иванова",
				"password": "Str0ng!Passw0rd#77"
			}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.BadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"email": "m@example.com", "nickname": "masha"}`,
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

			req := newRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body), mockDB, 0, "")
			rec := httptest.NewRecorder()
			HandleRegisterUser(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := decodeErrorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
				return
			}

			var resp RegisterUserResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.ID != 42 {
				t.Errorf("ID = %d, want 42", resp.ID)
			}
			if resp.Username != "masha" {
				t.Errorf("Username = %q, want %q", resp.Username, "masha")
			}
		})
	}
}

func TestHandleSubscribe(t *testing.T) {
	author := database.User{
		ID:        7,
		Email:     "petya@example.com",
		Username:  "petya",
		FirstName: "Пётр",
		LastName:  "Смирнов",
	}

	tests := []struct {
		name       string
		authorID   string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name:     "subscribes",
			authorID: "7",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(7)).Return(author, nil)
				db.CreateFollow(gomock.Any(), database.FollowPair{FollowerID: 123, AuthorID: 7}).
					Return(true, nil)
				db.ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{AuthorID: 7, Limit: 3}).
					Return([]database.Recipe{}, nil)
				db.CountRecipesByAuthor(gomock.Any(), int64(7)).Return(int64(0), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:     "already subscribed",
			authorID: "7",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(7)).Return(author, nil)
				db.CreateFollow(gomock.Any(), database.FollowPair{FollowerID: 123, AuthorID: 7}).
					Return(false, nil)
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiError.AlreadySubscribed,
		},
		{
			name:       "self subscription",
			authorID:   "123",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.SelfSubscription,
		},
		{
			name:     "author does not exist",
			authorID: "99",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(99)).Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.UserNotFound,
		},
		{
			name:       "invalid author id",
			authorID:   "abc",
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

			req := newRequest(http.MethodPost, "/api/users/"+tt.authorID+"/subscribe", nil, mockDB, 123, tt.authorID)
			rec := httptest.NewRecorder()
			HandleSubscribe(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := decodeErrorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
				return
			}

			var sub view.Subscription
			if err := json.NewDecoder(rec.Body).Decode(&sub); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if sub.ID != author.ID || sub.Username != author.Username {
				t.Errorf("subscription user = %+v, want author %d", sub.User, author.ID)
			}
			if !sub.IsSubscribed {
				t.Error("IsSubscribed = false, want true")
			}
			if sub.Recipes == nil {
				t.Error("Recipes is nil, want empty slice")
			}
		})
	}
}

func TestHandleSubscribe_RecipePreviewLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	author := database.User{ID: 7, Username: "petya"}
	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(author, nil)
	mockDB.EXPECT().CreateFollow(gomock.Any(), database.FollowPair{FollowerID: 123, AuthorID: 7}).
		Return(true, nil)
	mockDB.EXPECT().
		ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{AuthorID: 7, Limit: 1}).
		Return([]database.Recipe{{ID: 5, AuthorID: 7, Name: "Сырники"}}, nil)
	mockDB.EXPECT().CountRecipesByAuthor(gomock.Any(), int64(7)).Return(int64(8), nil)

	req := newRequest(http.MethodPost, "/api/users/7/subscribe?recipes_limit=1", nil, mockDB, 123, "7")
	rec := httptest.NewRecorder()
	HandleSubscribe(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var sub view.Subscription
	if err := json.NewDecoder(rec.Body).Decode(&sub); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(sub.Recipes) != 1 {
		t.Fatalf("len(Recipes) = %d, want 1", len(sub.Recipes))
	}
	if sub.RecipesCount != 8 {
		t.Errorf("RecipesCount = %d, want 8", sub.RecipesCount)
	}
}

func TestHandleUnsubscribe(t *testing.T) {
	author := database.User{ID: 7, Username: "petya"}

	tests := []struct {
		name       string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "unsubscribes",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(7)).Return(author, nil)
				db.DeleteFollow(gomock.Any(), database.FollowPair{FollowerID: 123, AuthorID: 7}).
					Return(true, nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "not subscribed",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(7)).Return(author, nil)
				db.DeleteFollow(gomock.Any(), database.FollowPair{FollowerID: 123, AuthorID: 7}).
					Return(false, nil)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.NotSubscribed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			tt.setup(mockDB.EXPECT())

			req := newRequest(http.MethodDelete, "/api/users/7/subscribe", nil, mockDB, 123, "7")
			rec := httptest.NewRecorder()
			HandleUnsubscribe(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := decodeErrorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
			}
		})
	}
}

func TestHandleSetPassword(t *testing.T) {
	const currentPassword = "Curr3nt!Passw0rd#9"

	currentHash, err := argon2id.EncodeHash(currentPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash current password: %v", err)
	}
	user := database.User{ID: 123, Email: "masha@example.com", PasswordHash: currentHash}

	tests := []struct {
		name       string
		body       string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "changes password",
			body: `{"current_password": "` + currentPassword + `", "new_password": "N3w!Passw0rd#2024"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(123)).Return(user, nil)
				db.UpdateUserPassword(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg database.UpdateUserPasswordParams) error {
						if arg.ID != 123 {
							t.Errorf("ID = %d, want 123", arg.ID)
						}
						if arg.PasswordHash == "" || arg.PasswordHash == currentHash {
							t.Errorf("new hash not set: %q", arg.PasswordHash)
						}
						return nil
					})
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "wrong current password",
			body: `{"current_password": "Wr0ng!Passw0rd#9", "new_password": "N3w!Passw0rd#2024"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(123)).Return(user, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiError.InvalidPassword,
		},
		{
			name: "weak new password",
			body: `{"current_password": "` + currentPassword + `", "new_password": "short"}`,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetUserByID(gomock.Any(), int64(123)).Return(user, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiError.WeakPassword,
		},
		{
			name:       "missing new password",
			body:       `{"current_password": "` + currentPassword + `"}`,
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

			req := newRequest(http.MethodPost, "/api/users/set_password", strings.NewReader(tt.body), mockDB, 123, "")
			rec := httptest.NewRecorder()
			HandleSetPassword(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if code := decodeErrorCode(t, rec); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
			}
		})
	}
}
