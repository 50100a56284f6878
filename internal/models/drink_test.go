package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestDrinkResponse_IsEmpty(t *testing.T) {
	var nilResponse *DrinkResponse

	assert.True(t, nilResponse.IsEmpty())
	assert.True(t, (&DrinkResponse{Drinks: nil}).IsEmpty())
	assert.True(t, (&DrinkResponse{Drinks: []Drink{}}).IsEmpty())
	assert.False(t, (&DrinkResponse{Drinks: []Drink{{ID: "11007", Name: "Mojito"}}}).IsEmpty())
}

func TestDrinkResponse_DecodeNullDrinks(t *testing.T) {
	var response DrinkResponse
	require.NoError(t, json.Unmarshal([]byte(`{"drinks": null}`), &response))

	assert.Nil(t, response.Drinks)
	assert.True(t, response.IsEmpty())
}

func TestDrinkDetails_Ingredients(t *testing.T) {
	t.Run("sparse slots keep their position", func(t *testing.T) {
		details := DrinkDetails{
			ID:           "11007",
			Ingredient1:  strPtr("Light rum"),
			Measure1:     strPtr("2-3 oz "),
			Ingredient2:  strPtr("Lime"),
			Ingredient4:  strPtr("Mint"),
			Measure4:     strPtr("2-4 "),
			Ingredient15: strPtr("Soda water"),
		}

		ingredients := details.Ingredients()

		require.Len(t, ingredients, 4)
		assert.Equal(t, 1, ingredients[0].Position)
		assert.Equal(t, "Light rum", ingredients[0].Name)
		assert.Equal(t, "2-3 oz ", *ingredients[0].Measure)
		assert.Equal(t, 2, ingredients[1].Position)
		assert.Nil(t, ingredients[1].Measure)
		assert.Equal(t, 4, ingredients[2].Position)
		assert.Equal(t, 15, ingredients[3].Position)
	})

	t.Run("empty strings are absent", func(t *testing.T) {
		details := DrinkDetails{Ingredient1: strPtr(""), Ingredient2: strPtr("Gin")}

		ingredients := details.Ingredients()

		require.Len(t, ingredients, 1)
		assert.Equal(t, 2, ingredients[0].Position)
	})

	t.Run("no ingredients", func(t *testing.T) {
		details := DrinkDetails{}
		assert.Empty(t, details.Ingredients())
	})
}

func TestDrinkDetails_DecodeRemoteRecord(t *testing.T) {
	payload := `{"drinks":[{
		"idDrink":"11007",
		"strDrink":"Margarita",
		"strDrinkAlternate":null,
		"strCategory":"Ordinary Drink",
		"strAlcoholic":"Alcoholic",
		"strGlass":"Cocktail glass",
		"strInstructions":"Rub the rim of the glass with the lime slice.",
		"strInstructionsDE":"Reiben Sie den Rand des Glases mit der Limettenscheibe.",
		"strInstructionsZH-HANS":null,
		"strDrinkThumb":"https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg",
		"strIngredient1":"Tequila",
		"strIngredient2":"Triple sec",
		"strMeasure1":"1 1/2 oz ",
		"strCreativeCommonsConfirmed":"Yes",
		"dateModified":"2015-08-18 14:42:59"
	}]}`

	var response DrinkDetailsResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &response))
	require.Len(t, response.Drinks, 1)

	details := response.Drinks[0]
	assert.Equal(t, "11007", details.ID)
	assert.Nil(t, details.Alternate)
	assert.Nil(t, details.InstructionsZHHans)
	require.NotNil(t, details.InstructionsDE)
	require.NotNil(t, details.Category)
	assert.Equal(t, "Ordinary Drink", *details.Category)
	assert.Len(t, details.Ingredients(), 2)
	assert.False(t, details.IsFavorite)
}

func TestCachedDrinkConversions(t *testing.T) {
	drink := Drink{ID: "11007", Name: "Mojito", Thumb: "mojito.jpg", IsFavorite: false}

	cached := NewCachedDrink(drink)
	assert.Equal(t, CachedDrink{ID: "11007", Name: "Mojito", Thumb: "mojito.jpg"}, cached)

	back := cached.ToFavoriteDrink()
	assert.Equal(t, drink.ID, back.ID)
	assert.Equal(t, drink.Name, back.Name)
	assert.Equal(t, drink.Thumb, back.Thumb)
	assert.True(t, back.IsFavorite)
}

func TestDrinkDetails_ToDrink(t *testing.T) {
	details := DrinkDetails{ID: "11007", Name: "Mojito", Thumb: "mojito.jpg", Glass: strPtr("Highball glass")}

	assert.Equal(t, Drink{ID: "11007", Name: "Mojito", Thumb: "mojito.jpg"}, details.ToDrink())
}
