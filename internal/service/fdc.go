package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pageza/dietplan/backend/internal/models"
)

// FoodData Central nutrient numbers for the four macros
const (
	nutrientEnergy  = "208"
	nutrientProtein = "203"
	nutrientCarbs   = "205"
	nutrientFat     = "204"
)

// FDCSearchResponse is the body of a nutrition search, as returned by FoodData
// Central and relayed by the nutrition proxy.
type FDCSearchResponse struct {
	Foods []FDCFood `json:"foods"`

	// Skipped counts foods dropped while decoding because they were not objects
	// of the expected shape.
	Skipped int `json:"-"`
}

// UnmarshalJSON decodes each food on its own so one malformed record does
// not discard the rest of the response.
func (r *FDCSearchResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Foods []json.RawMessage `json:"foods"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Foods = make([]FDCFood, 0, len(raw.Foods))
	r.Skipped = 0
	for _, msg := range raw.Foods {
		var food FDCFood
		if err := json.Unmarshal(msg, &food); err != nil {
			r.Skipped++
			continue
		}
		r.Foods = append(r.Foods, food)
	}
	return nil
}

// FDCFood is a single food in a nutrition search response
type FDCFood struct {
	FdcID         FoodID        `json:"fdcId"`
	Description   string        `json:"description"`
	FoodCategory  string        `json:"foodCategory,omitempty"`
	FoodNutrients []FDCNutrient `json:"foodNutrients"`
}

// UnmarshalJSON defaults fields of the wrong type instead of failing the food.
func (f *FDCFood) UnmarshalJSON(data []byte) error {
	var raw struct {
		FdcID         FoodID          `json:"fdcId"`
		Description   json.RawMessage `json:"description"`
		FoodCategory  json.RawMessage `json:"foodCategory"`
		FoodNutrients json.RawMessage `json:"foodNutrients"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var nutrients []json.RawMessage
	_ = json.Unmarshal(raw.FoodNutrients, &nutrients)

	*f = FDCFood{
		FdcID:        raw.FdcID,
		Description:  rawString(raw.Description),
		FoodCategory: rawString(raw.FoodCategory),
	}
	for _, msg := range nutrients {
		var n FDCNutrient
		if err := json.Unmarshal(msg, &n); err != nil {
			continue
		}
		f.FoodNutrients = append(f.FoodNutrients, n)
	}
	return nil
}

func rawString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

// FDCNutrient is one nutrient amount of a food
type FDCNutrient struct {
	NutrientNumber NutrientNumber `json:"nutrientNumber"`
	Value          NutrientValue  `json:"value"`
}

// FoodID is a food identifier that may arrive as a JSON string or number
type FoodID string

// UnmarshalJSON accepts 1001, "1001" and null. Other values leave the ID empty.
func (id *FoodID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*id = FoodID(strings.TrimSpace(rawString(data)))
		return nil
	}
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*id = FoodID(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*id = ""
	return nil
}

// MarshalJSON writes numeric IDs as numbers, matching FoodData Central.
func (id FoodID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// NutrientValue is a nutrient amount that may arrive as a JSON number, a
// numeric string or null. Anything unparseable or non-finite becomes 0.
type NutrientValue float64

// UnmarshalJSON never fails; bad amounts default to 0
func (v *NutrientValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		text = strings.TrimSpace(rawString(data))
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*v = 0
		return nil
	}
	*v = NutrientValue(f)
	return nil
}

// NutrientNumber is a nutrient identifier that may arrive as a JSON string or number
type NutrientNumber string

// UnmarshalJSON accepts "208", 208 and 208.0
func (n *NutrientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NutrientNumber(strings.TrimSpace(s))
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid nutrient number %s", data)
	}
	*n = NutrientNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// ToFoodItem maps a FoodData Central food onto the unified result shape
func (f *FDCFood) ToFoodItem() models.FoodItem {
	var nutrients models.Nutrients
	for _, n := range f.FoodNutrients {
		switch string(n.NutrientNumber) {
		case nutrientEnergy:
			nutrients.Calories = float64(n.Value)
		case nutrientProtein:
			nutrients.Protein = float64(n.Value)
		case nutrientCarbs:
			nutrients.Carbohydrates = float64(n.Value)
		case nutrientFat:
			nutrients.Fat = float64(n.Value)
		}
	}

	doc := models.NutrientDoc{
		Calories:      &nutrients.Calories,
		Protein:       &nutrients.Protein,
		Carbohydrates: &nutrients.Carbohydrates,
		Fat:           &nutrients.Fat,
	}

	return models.FoodItem{
		ID:        string(f.FdcID),
		Name:      models.DisplayName(f.Description),
		Source:    models.SourceRemote,
		Nutrients: doc.Normalize(),
		Category:  f.FoodCategory,
	}
}
