package shoppinglist

import (
	"reflect"
	"strings"
	"testing"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  []Total
	}{
		{
			name:  "empty basket",
			lines: nil,
			want:  []Total{},
		},
		{
			name: "two recipes sharing an ingredient",
			lines: []Line{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 300, Quantity: 1},
				{IngredientID: 2, Name: "сахар", MeasurementUnit: "г", Amount: 100, Quantity: 1},
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 200, Quantity: 1},
			},
			want: []Total{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Quantity: 500},
				{IngredientID: 2, Name: "сахар", MeasurementUnit: "г", Quantity: 100},
			},
		},
		{
			name: "basket quantity scales amounts",
			lines: []Line{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 300, Quantity: 2},
			},
			want: []Total{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Quantity: 600},
			},
		},
		{
			name: "same name different ingredient stays separate",
			lines: []Line{
				{IngredientID: 1, Name: "молоко", MeasurementUnit: "мл", Amount: 200, Quantity: 1},
				{IngredientID: 2, Name: "молоко", MeasurementUnit: "г", Amount: 50, Quantity: 1},
			},
			want: []Total{
				{IngredientID: 1, Name: "молоко", MeasurementUnit: "мл", Quantity: 200},
				{IngredientID: 2, Name: "молоко", MeasurementUnit: "г", Quantity: 50},
			},
		},
		{
			name: "large totals do not overflow int32",
			lines: []Line{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Amount: 32000, Quantity: 32000},
			},
			want: []Total{
				{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Quantity: 1024000000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.lines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	totals := []Total{
		{IngredientID: 1, Name: "мука", MeasurementUnit: "г", Quantity: 500},
		{IngredientID: 2, Name: "сахар", MeasurementUnit: "г", Quantity: 100},
	}

	got := Render(totals)
	want := "мука 500 г\nсахар 100 г\n" + Trailer
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_EmptyBasket(t *testing.T) {
	got := Render(nil)
	if got != Trailer {
		t.Errorf("Render(nil) = %q, want trailer alone", got)
	}
}

func TestRender_TrailerIsLastLine(t *testing.T) {
	totals := Aggregate([]Line{
		{IngredientID: 1, Name: "соль", MeasurementUnit: "г", Amount: 5, Quantity: 3},
	})
	got := Render(totals)
	if !strings.HasSuffix(got, Trailer) {
		t.Errorf("report should end with the trailer, got %q", got)
	}
	if strings.Count(got, Trailer) != 1 {
		t.Errorf("trailer should appear exactly once, got %q", got)
	}
}
