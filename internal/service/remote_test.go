package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/models"
)

const remoteFixture = `{
  "foods": [
    {"fdcId": 1001, "description": "Brown rice, cooked", "foodCategory": "Cereal Grains",
     "foodNutrients": [
       {"nutrientNumber": "208", "value": 123},
       {"nutrientNumber": 203, "value": 2.7},
       {"nutrientNumber": "205", "value": 25.6},
       {"nutrientNumber": "204", "value": 1},
       {"nutrientNumber": "291", "value": 1.6}
     ]},
    {"fdcId": 1002, "description": "Rice flour", "foodNutrients": [{"nutrientNumber": "208", "value": 366}]},
    {"fdcId": 1003, "description": "Lentils, raw", "foodNutrients": []},
    {"fdcId": 1004, "description": "RICE, WHITE", "foodNutrients": null}
  ]
}`

func TestRemoteSourceFetch(t *testing.T) {
	var gotQuery, gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteFixture))
	}))
	defer server.Close()

	src := NewRemoteSource(server.URL, time.Second, zap.NewNop())
	items, err := src.Fetch(context.Background(), "rice", 10)
	require.NoError(t, err)

	assert.Equal(t, "search", gotAction)
	assert.Equal(t, "rice", gotQuery)

	require.Len(t, items, 3)
	assert.Equal(t, "Rice flour", items[0].Name)
	assert.Equal(t, "RICE, WHITE", items[1].Name)
	assert.Equal(t, "Brown rice, cooked", items[2].Name)

	brown := items[2]
	assert.Equal(t, "1001", brown.ID)
	assert.Equal(t, models.SourceRemote, brown.Source)
	assert.Equal(t, "Cereal Grains", brown.Category)
	assert.Equal(t, models.Nutrients{Calories: 123, Protein: 2.7, Carbohydrates: 25.6, Fat: 1}, brown.Nutrients)

	assert.Equal(t, models.Nutrients{Calories: 366}, items[0].Nutrients)
	assert.Equal(t, models.Nutrients{}, items[1].Nutrients)
}

func TestRemoteSourceKeepsGoodFoodsNextToMalformedOnes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": [
			{"fdcId": 2001, "description": "Rice, white",
			 "foodNutrients": [{"nutrientNumber": "208", "value": 130}]},
			{"fdcId": "abc", "description": "Rice, puffed",
			 "foodNutrients": [
			   {"nutrientNumber": "203", "value": "2.6"},
			   {"nutrientNumber": "208", "value": "n/a"},
			   {"nutrientNumber": true, "value": 5}
			 ]},
			"not a food",
			{"fdcId": 2003, "description": 42, "foodNutrients": "none"}
		]}`))
	}))
	defer server.Close()

	items, err := NewRemoteSource(server.URL, time.Second, zap.NewNop()).Fetch(context.Background(), "rice", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "2001", items[0].ID)
	assert.Equal(t, "Rice, white", items[0].Name)
	assert.Equal(t, 130.0, items[0].Nutrients.Calories)

	assert.Equal(t, "abc", items[1].ID)
	assert.Equal(t, "Rice, puffed", items[1].Name)
	assert.Equal(t, models.Nutrients{Protein: 2.6}, items[1].Nutrients)
}

func TestFDCSearchResponseCountsSkippedFoods(t *testing.T) {
	var resp FDCSearchResponse
	require.NoError(t, json.Unmarshal([]byte(`{"foods": [{"fdcId": 1, "description": "Oats"}, 7, "x"]}`), &resp))
	require.Len(t, resp.Foods, 1)
	assert.Equal(t, 2, resp.Skipped)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"foods": [{"fdcId": 1, "description": "Oats", "foodNutrients": null}]}`, string(out))
}

func TestNutrientValueUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  NutrientValue
	}{
		{`2.6`, 2.6},
		{`"2.6"`, 2.6},
		{`" 12 "`, 12},
		{`null`, 0},
		{`"n/a"`, 0},
		{`"NaN"`, 0},
		{`1e400`, 0},
		{`true`, 0},
	}

	for _, tt := range tests {
		var v NutrientValue
		require.NoError(t, json.Unmarshal([]byte(tt.input), &v), tt.input)
		assert.Equal(t, tt.want, v, tt.input)
	}
}

func TestRemoteSourceTruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(remoteFixture))
	}))
	defer server.Close()

	items, err := NewRemoteSource(server.URL, time.Second, zap.NewNop()).Fetch(context.Background(), "rice", 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoteSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"foods": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewRemoteSource(server.URL, time.Second, zap.NewNop()).Fetch(context.Background(), "rice", 5)
			assert.True(t, errors.Is(err, ErrUpstream))
		})
	}
}

func TestNutrientNumberUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  NutrientNumber
	}{
		{`"208"`, "208"},
		{`208`, "208"},
		{`208.0`, "208"},
		{`" 203 "`, "203"},
		{`null`, ""},
	}

	for _, tt := range tests {
		var n NutrientNumber
		require.NoError(t, json.Unmarshal([]byte(tt.input), &n), tt.input)
		assert.Equal(t, tt.want, n, tt.input)
	}

	var n NutrientNumber
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}

func TestFDCFoodToFoodItemDefaults(t *testing.T) {
	food := FDCFood{FdcID: "42"}
	item := food.ToFoodItem()

	assert.Equal(t, "42", item.ID)
	assert.Equal(t, models.UnnamedFood, item.Name)
	assert.Equal(t, models.Nutrients{}, item.Nutrients)
}
