package models

import "time"

// MaxIngredients is the number of ingredient/measure slots a recipe record carries
const MaxIngredients = 15

// Drink represents a catalog entry as returned by the recipe API list endpoints
type Drink struct {
	ID         string `json:"idDrink"`
	Name       string `json:"strDrink"`
	Thumb      string `json:"strDrinkThumb"`
	IsFavorite bool   `json:"isFavorite"`
}

// DrinkResponse wraps list endpoints. Drinks is nil when the remote side found nothing.
type DrinkResponse struct {
	Drinks []Drink `json:"drinks"`
}

// IsEmpty reports whether the response carries no drinks. A missing collection and
// an empty one are treated the same.
func (r *DrinkResponse) IsEmpty() bool {
	return r == nil || len(r.Drinks) == 0
}

// DrinkDetails represents a full recipe record (lookup.php and search.php)
type DrinkDetails struct {
	ID        string  `json:"idDrink"`
	Name      string  `json:"strDrink"`
	Thumb     string  `json:"strDrinkThumb"`
	Alternate *string `json:"strDrinkAlternate"`
	Tags      *string `json:"strTags"`
	Video     *string `json:"strVideo"`
	Category  *string `json:"strCategory"`
	IBA       *string `json:"strIBA"`
	Alcoholic *string `json:"strAlcoholic"`
	Glass     *string `json:"strGlass"`

	Instructions       *string `json:"strInstructions"`
	InstructionsES     *string `json:"strInstructionsES"`
	InstructionsDE     *string `json:"strInstructionsDE"`
	InstructionsFR     *string `json:"strInstructionsFR"`
	InstructionsIT     *string `json:"strInstructionsIT"`
	InstructionsZHHans *string `json:"strInstructionsZH-HANS"`
	InstructionsZHHant *string `json:"strInstructionsZH-HANT"`

	Ingredient1  *string `json:"strIngredient1"`
	Ingredient2  *string `json:"strIngredient2"`
	Ingredient3  *string `json:"strIngredient3"`
	Ingredient4  *string `json:"strIngredient4"`
	Ingredient5  *string `json:"strIngredient5"`
	Ingredient6  *string `json:"strIngredient6"`
	Ingredient7  *string `json:"strIngredient7"`
	Ingredient8  *string `json:"strIngredient8"`
	Ingredient9  *string `json:"strIngredient9"`
	Ingredient10 *string `json:"strIngredient10"`
	Ingredient11 *string `json:"strIngredient11"`
	Ingredient12 *string `json:"strIngredient12"`
	Ingredient13 *string `json:"strIngredient13"`
	Ingredient14 *string `json:"strIngredient14"`
	Ingredient15 *string `json:"strIngredient15"`

	Measure1  *string `json:"strMeasure1"`
	Measure2  *string `json:"strMeasure2"`
	Measure3  *string `json:"strMeasure3"`
	Measure4  *string `json:"strMeasure4"`
	Measure5  *string `json:"strMeasure5"`
	Measure6  *string `json:"strMeasure6"`
	Measure7  *string `json:"strMeasure7"`
	Measure8  *string `json:"strMeasure8"`
	Measure9  *string `json:"strMeasure9"`
	Measure10 *string `json:"strMeasure10"`
	Measure11 *string `json:"strMeasure11"`
	Measure12 *string `json:"strMeasure12"`
	Measure13 *string `json:"strMeasure13"`
	Measure14 *string `json:"strMeasure14"`
	Measure15 *string `json:"strMeasure15"`

	ImageSource              *string `json:"strImageSource"`
	ImageAttribution         *string `json:"strImageAttribution"`
	CreativeCommonsConfirmed *string `json:"strCreativeCommonsConfirmed"`
	DateModified             *string `json:"dateModified"`

	IsFavorite bool `json:"isFavorite"`
}

// DrinkDetailsResponse wraps lookup and search endpoints
type DrinkDetailsResponse struct {
	Drinks []DrinkDetails `json:"drinks"`
}

// Ingredient is one present ingredient slot of a recipe
type Ingredient struct {
	Position int     `json:"position"`
	Name     string  `json:"name"`
	Measure  *string `json:"measure,omitempty"`
}

// Ingredients returns the present ingredient slots in index order.
// Absent slots are skipped, later slots keep their original position.
func (d *DrinkDetails) Ingredients() []Ingredient {
	names := d.ingredientSlots()
	measures := d.measureSlots()

	result := make([]Ingredient, 0, MaxIngredients)
	for i := 0; i < MaxIngredients; i++ {
		if names[i] == nil || *names[i] == "" {
			continue
		}
		result = append(result, Ingredient{
			Position: i + 1,
			Name:     *names[i],
			Measure:  measures[i],
		})
	}
	return result
}

func (d *DrinkDetails) ingredientSlots() [MaxIngredients]*string {
	return [MaxIngredients]*string{
		d.Ingredient1, d.Ingredient2, d.Ingredient3, d.Ingredient4, d.Ingredient5,
		d.Ingredient6, d.Ingredient7, d.Ingredient8, d.Ingredient9, d.Ingredient10,
		d.Ingredient11, d.Ingredient12, d.Ingredient13, d.Ingredient14, d.Ingredient15,
	}
}

func (d *DrinkDetails) measureSlots() [MaxIngredients]*string {
	return [MaxIngredients]*string{
		d.Measure1, d.Measure2, d.Measure3, d.Measure4, d.Measure5,
		d.Measure6, d.Measure7, d.Measure8, d.Measure9, d.Measure10,
		d.Measure11, d.Measure12, d.Measure13, d.Measure14, d.Measure15,
	}
}

// ToDrink projects the display fields of a recipe record
func (d *DrinkDetails) ToDrink() Drink {
	return Drink{
		ID:         d.ID,
		Name:       d.Name,
		Thumb:      d.Thumb,
		IsFavorite: d.IsFavorite,
	}
}

// CachedDrink is the locally persisted snapshot of a drink taken when it was favorited
type CachedDrink struct {
	ID    string `json:"idDrink" db:"id"`
	Name  string `json:"strDrink" db:"name"`
	Thumb string `json:"strDrinkThumb" db:"thumb"`
}

// NewCachedDrink snapshots the display fields of a drink
func NewCachedDrink(d Drink) CachedDrink {
	return CachedDrink{
		ID:    d.ID,
		Name:  d.Name,
		Thumb: d.Thumb,
	}
}

// ToFavoriteDrink converts a cached row back to a drink flagged as favorite
func (c CachedDrink) ToFavoriteDrink() Drink {
	return Drink{
		ID:         c.ID,
		Name:       c.Name,
		Thumb:      c.Thumb,
		IsFavorite: true,
	}
}

// FavoriteMark records that a user favorited a drink
type FavoriteMark struct {
	UserEmail string    `db:"user_email"`
	DrinkID   string    `db:"drink_id"`
	CreatedAt time.Time `db:"created_at"`
}
