package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// NutrientDoc is the stored shape of a nutrient record. Documents written by
// older clients or imports may omit any field, so every value is optional.
type NutrientDoc struct {
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Fiber         *float64 `json:"fiber,omitempty"`
	Sugar         *float64 `json:"sugar,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty"`
}

// Normalize fills every macro field, defaulting absent or invalid values to 0.
// A nil doc normalizes to all zeros.
func (d *NutrientDoc) Normalize() Nutrients {
	if d == nil {
		return Nutrients{}
	}
	return Nutrients{
		Calories:      valueOrZero(d.Calories),
		Protein:       valueOrZero(d.Protein),
		Carbohydrates: valueOrZero(d.Carbohydrates),
		Fat:           valueOrZero(d.Fat),
		Fiber:         optional(d.Fiber),
		Sugar:         optional(d.Sugar),
		Sodium:        optional(d.Sodium),
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0
	}
	return *v
}

func optional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := valueOrZero(v)
	return &n
}

// Float is a helper for building NutrientDoc literals.
func Float(v float64) *float64 {
	return &v
}

// Value implements the driver.Valuer interface
func (d NutrientDoc) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface. NULL, empty and unparsable
// payloads all scan to an empty document.
func (d *NutrientDoc) Scan(value interface{}) error {
	*d = NutrientDoc{}
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported nutrients column type %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil
	}
	d.Calories = number(raw["calories"])
	d.Protein = number(raw["protein"])
	d.Carbohydrates = number(raw["carbohydrates"])
	if d.Carbohydrates == nil {
		d.Carbohydrates = number(raw["carbs"])
	}
	d.Fat = number(raw["fat"])
	d.Fiber = number(raw["fiber"])
	d.Sugar = number(raw["sugar"])
	d.Sodium = number(raw["sodium"])
	return nil
}

// number accepts JSON numbers and numeric strings; anything else is absent.
func number(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}
