package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNutrientDocNormalize(t *testing.T) {
	t.Run("nil doc defaults every macro to zero", func(t *testing.T) {
		var doc *NutrientDoc
		n := doc.Normalize()
		assert.Equal(t, Nutrients{}, n)

		b, err := json.Marshal(n)
		require.NoError(t, err)
		assert.JSONEq(t, `{"calories":0,"protein":0,"carbohydrates":0,"fat":0}`, string(b))
	})

	t.Run("partial doc keeps present values", func(t *testing.T) {
		doc := &NutrientDoc{Calories: Float(120), Fiber: Float(3.5)}
		n := doc.Normalize()
		assert.Equal(t, 120.0, n.Calories)
		assert.Equal(t, 0.0, n.Protein)
		require.NotNil(t, n.Fiber)
		assert.Equal(t, 3.5, *n.Fiber)
		assert.Nil(t, n.Sugar)
	})

	t.Run("invalid numbers become zero", func(t *testing.T) {
		doc := &NutrientDoc{Calories: Float(-5), Protein: Float(math.NaN()), Fat: Float(math.Inf(1))}
		n := doc.Normalize()
		assert.Equal(t, 0.0, n.Calories)
		assert.Equal(t, 0.0, n.Protein)
		assert.Equal(t, 0.0, n.Fat)
	})
}

func TestNutrientDocScan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected Nutrients
	}{
		{
			name:     "null column",
			input:    nil,
			expected: Nutrients{},
		},
		{
			name:     "empty payload",
			input:    []byte(""),
			expected: Nutrients{},
		},
		{
			name:     "garbage payload",
			input:    "not json",
			expected: Nutrients{},
		},
		{
			name:     "numeric strings and carbs alias",
			input:    `{"calories":"130","protein":2.7,"carbs":28}`,
			expected: Nutrients{Calories: 130, Protein: 2.7, Carbohydrates: 28},
		},
		{
			name:     "wrong types are ignored",
			input:    []byte(`{"calories":true,"fat":[1]}`),
			expected: Nutrients{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc NutrientDoc
			require.NoError(t, doc.Scan(tt.input))
			assert.Equal(t, tt.expected, doc.Normalize())
		})
	}
}

func TestToFoodItemDefaults(t *testing.T) {
	food := CuratedFood{Name: "  ", Category: "Grains"}
	item := food.ToFoodItem()

	assert.Equal(t, UnnamedFood, item.Name)
	assert.Equal(t, SourceCurated, item.Source)
	assert.Equal(t, Nutrients{}, item.Nutrients)
	assert.False(t, item.IsVegan)

	recipe := Recipe{Name: "Dal", Nutrients: NutrientDoc{Protein: Float(9)}}
	ri := recipe.ToFoodItem()
	assert.Equal(t, SourceRecipe, ri.Source)
	assert.Equal(t, 9.0, ri.Nutrients.Protein)
}

func TestStringListRoundTrip(t *testing.T) {
	v, err := StringList{"idli", "rice"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["idli","rice"]`, v)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, StringList{"idli", "rice"}, out)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}
