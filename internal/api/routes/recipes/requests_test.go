package recipes

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func validCreateRequest() CreateRecipeRequest {
	return CreateRecipeRequest{
		Ingredients: []IngredientItem{{ID: 1, Amount: 100}},
		Tags:        []int64{1},
		Image:       "data:image/png;base64,abc",
		Name:        "Борщ",
		Text:        "Сварить.",
		CookingTime: 90,
	}
}

func TestCreateRecipeRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRecipeRequest)
		wantErr bool
	}{
		{name: "valid request", mutate: func(r *CreateRecipeRequest) {}},
		{name: "minimum cooking time", mutate: func(r *CreateRecipeRequest) { r.CookingTime = 1 }},
		{name: "maximum cooking time", mutate: func(r *CreateRecipeRequest) { r.CookingTime = 32000 }},
		{name: "zero cooking time", mutate: func(r *CreateRecipeRequest) { r.CookingTime = 0 }, wantErr: true},
		{name: "cooking time above maximum", mutate: func(r *CreateRecipeRequest) { r.CookingTime = 32001 }, wantErr: true},
		{name: "minimum amount", mutate: func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 1 }},
		{name: "maximum amount", mutate: func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 32000 }},
		{name: "zero amount", mutate: func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 0 }, wantErr: true},
		{name: "amount above maximum", mutate: func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 32001 }, wantErr: true},
		{name: "missing ingredient id", mutate: func(r *CreateRecipeRequest) { r.Ingredients[0].ID = 0 }, wantErr: true},
		{name: "empty ingredients", mutate: func(r *CreateRecipeRequest) { r.Ingredients = []IngredientItem{} }, wantErr: true},
		{name: "empty tags", mutate: func(r *CreateRecipeRequest) { r.Tags = []int64{} }, wantErr: true},
		{name: "missing image", mutate: func(r *CreateRecipeRequest) { r.Image = "" }, wantErr: true},
		{name: "missing name", mutate: func(r *CreateRecipeRequest) { r.Name = "" }, wantErr: true},
		{name: "missing text", mutate: func(r *CreateRecipeRequest) { r.Text = "" }, wantErr: true},
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validCreateRequest()
			tt.mutate(&request)

			err := validate.Struct(request)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestUpdateRecipeRequestValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Everything omitted is a valid no-op patch.
	if err := validate.Struct(UpdateRecipeRequest{}); err != nil {
		t.Errorf("empty patch should validate, got %v", err)
	}

	// A submitted ingredient list must still be well formed.
	bad := UpdateRecipeRequest{Ingredients: []IngredientItem{{ID: 1, Amount: 0}}}
	if err := validate.Struct(bad); err == nil {
		t.Error("expected validation error for zero amount in patch")
	}
}

func TestRecipeIDValidate(t *testing.T) {
	tests := []struct {
		id      recipeID
		wantErr bool
	}{
		{id: "7"},
		{id: "0"},
		{id: "abc", wantErr: true},
		{id: "-1", wantErr: true},
		{id: "", wantErr: true},
	}
	for _, tt := range tests {
		err := tt.id.Validate()
		if tt.wantErr && err == nil {
			t.Errorf("recipeID(%q).Validate() = nil, want error", tt.id)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("recipeID(%q).Validate() = %v, want nil", tt.id, err)
		}
	}
}
