package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dishcraft/backend/internal/model"
)

// ParseResult is the outcome of normalizing raw model output. Defaulted is
// true when the text could not be parsed at all and the placeholder record
// was substituted; the pipeline still proceeds to image generation in that
// case, using the placeholder title.
type ParseResult struct {
	Recipe    model.Recipe
	Defaulted bool
}

// looseNumber accepts a JSON number, a numeric string ("200" or "200g"), or
// anything else as zero. Language models do not reliably emit numeric types.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = looseNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		trimmed := strings.TrimRight(s, "gmgkcal ")
		if err := json.Unmarshal([]byte(trimmed), &f); err == nil {
			*n = looseNumber(f)
			return nil
		}
	}

	*n = 0
	return nil
}

type rawIngredient struct {
	// The model is prompted to emit "item" but clients send "name"; accept
	// both, preferring "item".
	Item   string `json:"item"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type rawTags struct {
	MealType string   `json:"mealType"`
	Cuisine  string   `json:"cuisine"`
	DishType string   `json:"dishType"`
	Extra    []string `json:"extra"`
}

type rawNutrition struct {
	Calories looseNumber `json:"calories"`
	Protein  looseNumber `json:"protein"`
	Carbs    looseNumber `json:"carbs"`
	Fats     looseNumber `json:"fats"`
	Vitamins string      `json:"vitamins"`
}

// ParseRecipeText converts raw, possibly markdown-fenced model output into a
// fully-defaulted recipe record. It never fails: malformed input degrades to
// a placeholder titled "Untitled Recipe" so the pipeline can continue.
// Every recognized field is defaulted independently — a tags object missing
// dishType keeps the rest of the tags.
func ParseRecipeText(raw string) ParseResult {
	recipe := model.Recipe{CreatedAt: time.Now().UTC()}
	recipe.ApplyDefaults()

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &fields); err != nil || len(fields) == 0 {
		return ParseResult{Recipe: recipe, Defaulted: true}
	}

	if s, ok := decodeString(fields["title"]); ok && s != "" {
		recipe.Title = s
	}
	if s, ok := decodeString(fields["description"]); ok {
		recipe.Description = s
	}

	var tags rawTags
	if json.Unmarshal(fields["tags"], &tags) == nil {
		if tags.MealType != "" {
			recipe.Tags.MealType = tags.MealType
		}
		if tags.Cuisine != "" {
			recipe.Tags.Cuisine = tags.Cuisine
		}
		if tags.DishType != "" {
			recipe.Tags.DishType = tags.DishType
		}
		if tags.Extra != nil {
			recipe.Tags.Extra = tags.Extra
		}
	}

	var ingredients []rawIngredient
	if json.Unmarshal(fields["ingredients"], &ingredients) == nil {
		for _, ing := range ingredients {
			name := ing.Item
			if name == "" {
				name = ing.Name
			}
			if name == "" {
				continue
			}
			recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{
				Name:   name,
				Amount: ing.Amount,
			})
		}
	}

	var steps []string
	if json.Unmarshal(fields["steps"], &steps) == nil {
		recipe.Steps = steps
	} else if s, ok := decodeString(fields["steps"]); ok && s != "" {
		recipe.Steps = []string{s}
	}

	var nutrition rawNutrition
	if json.Unmarshal(fields["nutrition"], &nutrition) == nil {
		recipe.Nutrition = model.Nutrition{
			Calories: float64(nutrition.Calories),
			Protein:  float64(nutrition.Protein),
			Carbs:    float64(nutrition.Carbs),
			Fats:     float64(nutrition.Fats),
			Vitamins: nutrition.Vitamins,
		}
	}

	// Defaults again: the decode above may have assigned nil slices.
	recipe.ApplyDefaults()

	return ParseResult{Recipe: recipe}
}

// stripCodeFence removes surrounding markdown code-fence markers and a
// leading language tag, which the model emits despite being told not to.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "json") {
		rest := strings.TrimSpace(s[len("json"):])
		if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
			s = rest
		}
	}

	return strings.TrimSpace(s)
}

func decodeString(data json.RawMessage) (string, bool) {
	if data == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}
