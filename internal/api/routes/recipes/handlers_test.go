package recipes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	apiError "platefeed/internal/api/error"
	"platefeed/internal/api/requestid"
	"platefeed/internal/api/token"
	"platefeed/internal/api/view"
	"platefeed/internal/database"
	"platefeed/internal/env"
	"platefeed/internal/log"
	"platefeed/internal/shoppinglist"
)

// newRequest builds a request with the environment, request id, user id
// and chi {id} param attached, the way the router middleware would.
func newRequest(method, target string, body io.Reader, mockDB *database.MockQuerier, userID int64, recipeID string) *http.Request {
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

	if recipeID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", recipeID)
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

func TestHandleFavorite(t *testing.T) {
	testRecipe := database.Recipe{ID: 7, AuthorID: 2, Name: "Борщ", CookingTime: 90}

	tests := []struct {
		name       string
		recipeID   string
		setup      func(*database.MockQuerierMockRecorder)
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name:     "new favorite",
			recipeID: "7",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetRecipe(gomock.Any(), int64(7)).Return(testRecipe, nil)
				db.CreateFavorite(gomock.Any(), database.FavoritePair{UserID: 123, RecipeID: 7}).
					Return(true, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:     "already favorited",
			recipeID: "7",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetRecipe(gomock.Any(), int64(7)).Return(testRecipe, nil)
				db.CreateFavorite(gomock.Any(), database.FavoritePair{UserID: 123, RecipeID: 7}).
					Return(false, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "recipe does not exist",
			recipeID: "99",
			setup: func(db *database.MockQuerierMockRecorder) {
				db.GetRecipe(gomock.Any(), int64(99)).Return(database.Recipe{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiError.RecipeNotFound,
		},
		{
			name:       "invalid recipe id",
			recipeID:   "abc",
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

			req := newRequest(http.MethodPost, "/api/recipes/"+tt.recipeID+"/favorite", nil, mockDB, 123, tt.recipeID)
			rec := httptest.NewRecorder()
			HandleFavorite(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if got := decodeErrorCode(t, rec); got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
				return
			}

			var card view.RecipeCard
			if err := json.NewDecoder(rec.Body).Decode(&card); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if card.ID != testRecipe.ID || card.Name != testRecipe.Name || card.CookingTime != testRecipe.CookingTime {
				t.Errorf("unexpected card %+v", card)
			}
		})
	}
}

func TestHandleUnfavorite(t *testing.T) {
	testRecipe := database.Recipe{ID: 7, AuthorID: 2, Name: "Борщ", CookingTime: 90}

	tests := []struct {
		name       string
		deleted    bool
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{name: "favorite removed", deleted: true, wantStatus: http.StatusNoContent},
		{name: "not favorited", deleted: false, wantStatus: http.StatusNotFound, wantCode: apiError.NotFavorited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).Return(testRecipe, nil)
			mockDB.EXPECT().
				DeleteFavorite(gomock.Any(), database.FavoritePair{UserID: 123, RecipeID: 7}).
				Return(tt.deleted, nil)

			req := newRequest(http.MethodDelete, "/api/recipes/7/favorite", nil, mockDB, 123, "7")
			rec := httptest.NewRecorder()
			HandleUnfavorite(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if got := decodeErrorCode(t, rec); got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
			}
		})
	}
}

func TestHandleAddToCart(t *testing.T) {
	testRecipe := database.Recipe{ID: 7, AuthorID: 2, Name: "Борщ", CookingTime: 90}

	tests := []struct {
		name         string
		body         string
		wantQuantity int32
		wantStatus   int
	}{
		{name: "empty body defaults to one", body: "", wantQuantity: 1, wantStatus: http.StatusCreated},
		{name: "explicit quantity", body: `{"quantity": 3}`, wantQuantity: 3, wantStatus: http.StatusCreated},
		{name: "zero quantity falls back to one", body: `{"quantity": 0}`, wantQuantity: 1, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).Return(testRecipe, nil)
			mockDB.EXPECT().
				UpsertBasketEntry(gomock.Any(), database.UpsertBasketEntryParams{
					UserID:      123,
					RecipeID:    7,
					Quantity:    tt.wantQuantity,
					CookingTime: 90,
				}).
				Return(database.BasketEntry{}, nil)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := newRequest(http.MethodPost, "/api/recipes/7/shopping_cart", body, mockDB, 123, "7")
			rec := httptest.NewRecorder()
			HandleAddToCart(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleAddToCart_RejectsUnknownFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).
		Return(database.Recipe{ID: 7, AuthorID: 2, CookingTime: 90}, nil)

	req := newRequest(http.MethodPost, "/api/recipes/7/shopping_cart",
		strings.NewReader(`{"amount": 3}`), mockDB, 123, "7")
	rec := httptest.NewRecorder()
	HandleAddToCart(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleRemoveFromCart(t *testing.T) {
	testRecipe := database.Recipe{ID: 7, AuthorID: 2, CookingTime: 90}

	tests := []struct {
		name       string
		deleted    bool
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{name: "entry removed", deleted: true, wantStatus: http.StatusNoContent},
		{name: "not in cart", deleted: false, wantStatus: http.StatusNotFound, wantCode: apiError.NotInBasket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).Return(testRecipe, nil)
			mockDB.EXPECT().
				DeleteBasketEntry(gomock.Any(), database.BasketPair{UserID: 123, RecipeID: 7}).
				Return(tt.deleted, nil)

			req := newRequest(http.MethodDelete, "/api/recipes/7/shopping_cart", nil, mockDB, 123, "7")
			rec := httptest.NewRecorder()
			HandleRemoveFromCart(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if got := decodeErrorCode(t, rec); got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
			}
		})
	}
}

func TestHandleDownloadShoppingCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().ListBasketLines(gomock.Any(), int64(123)).Return([]database.BasketLine{
		{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 300, Quantity: 1},
		{IngredientID: 2, Name: "сахар", MeasurementUnit: "г", Amount: 100, Quantity: 1},
		{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 200, Quantity: 1},
	}, nil)

	req := newRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil, mockDB, 123, "")
	rec := httptest.NewRecorder()
	HandleDownloadShoppingCart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="shopping_list.txt"` {
		t.Errorf("Content-Disposition = %q", got)
	}

	want := "мука 500 г\nсахар 100 г\n" + shoppinglist.Trailer
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestHandleDownloadShoppingCart_EmptyBasket(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	mockDB.EXPECT().ListBasketLines(gomock.Any(), int64(123)).Return(nil, nil)

	req := newRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil, mockDB, 123, "")
	rec := httptest.NewRecorder()
	HandleDownloadShoppingCart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != shoppinglist.Trailer {
		t.Errorf("body = %q, want trailer alone", got)
	}
}

func TestHandleDeleteRecipe_Ownership(t *testing.T) {
	tests := []struct {
		name       string
		authorID   int64
		wantStatus int
		wantCode   apiError.ErrorCode
		setup      func(*database.MockQuerierMockRecorder)
	}{
		{
			name:       "owner can delete",
			authorID:   123,
			wantStatus: http.StatusNoContent,
			setup: func(db *database.MockQuerierMockRecorder) {
				db.DeleteRecipe(gomock.Any(), int64(7)).Return(true, nil)
			},
		},
		{
			name:       "non-owner is rejected",
			authorID:   999,
			wantStatus: http.StatusForbidden,
			wantCode:   apiError.RecipeNotOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := database.NewMockQuerier(ctrl)
			mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).
				Return(database.Recipe{ID: 7, AuthorID: tt.authorID, CookingTime: 90}, nil)
			if tt.setup != nil {
				tt.setup(mockDB.EXPECT())
			}

			req := newRequest(http.MethodDelete, "/api/recipes/7", nil, mockDB, 123, "7")
			rec := httptest.NewRecorder()
			HandleDeleteRecipe(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if got := decodeErrorCode(t, rec); got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
			}
		})
	}
}

func createRecipeBody(image string) string {
	return `{
		"ingredients": [{"id": 11, "amount": 300}],
		"tags": [1],
		"image": "` + image + `",
		"name": "Борщ",
		"text": "Варить час.",
		"cooking_time": 90
	}`
}

func pngImageURI() string {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// failingMedia simulates an unreachable media backend.
type failingMedia struct{}

func (failingMedia) WriteRecipeImage(context.Context, int64, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingMedia) Remove(context.Context, string) error { return nil }

func TestHandleCreateRecipe_InvalidImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: a bad image must be rejected before any row is
	// written.
	mockDB := database.NewMockQuerier(ctrl)

	body := createRecipeBody("data:image/png;base64,%%%notbase64")
	req := newRequest(http.MethodPost, "/api/recipes", strings.NewReader(body), mockDB, 123, "")
	rec := httptest.NewRecorder()
	HandleCreateRecipe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rec); code != apiError.BadRequest {
		t.Errorf("code = %s, want %s", code, apiError.BadRequest)
	}
}

func TestHandleCreateRecipe_ImageWriteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	db := mockDB.EXPECT()
	db.GetTagsByIDs(gomock.Any(), []int64{1}).
		Return([]database.Tag{{ID: 1, Name: "Завтрак", Slug: "breakfast"}}, nil)
	db.GetIngredientsByIDs(gomock.Any(), []int64{11}).
		Return([]database.Ingredient{{ID: 11, Name: "мука", MeasurementUnit: "г"}}, nil)
	db.CreateRecipe(gomock.Any(), gomock.Any()).Return(int64(42), nil)
	// The fresh row must not survive a failed image write.
	db.DeleteRecipe(gomock.Any(), int64(42)).Return(true, nil)

	body := createRecipeBody(pngImageURI())
	req := newRequest(http.MethodPost, "/api/recipes", strings.NewReader(body), mockDB, 123, "")
	env.EnvFromCtx(req.Context()).Media = failingMedia{}
	rec := httptest.NewRecorder()
	HandleCreateRecipe(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHandleUpdateRecipe_InvalidImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := database.NewMockQuerier(ctrl)
	// Only the ownership read; the bad image must reject the patch before
	// UpdateRecipe runs.
	mockDB.EXPECT().GetRecipe(gomock.Any(), int64(7)).
		Return(database.Recipe{ID: 7, AuthorID: 123, Name: "Борщ", CookingTime: 90}, nil)

	body := `{"image": "data:image/png;base64,%%%notbase64"}`
	req := newRequest(http.MethodPatch, "/api/recipes/7", strings.NewReader(body), mockDB, 123, "7")
	rec := httptest.NewRecorder()
	HandleUpdateRecipe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := decodeErrorCode(t, rec); code != apiError.BadRequest {
		t.Errorf("code = %s, want %s", code, apiError.BadRequest)
	}
}
