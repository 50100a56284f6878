package models

import "time"

// RegisterRequest represents POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,max=100"`
	Email    string `json:"email" binding:"required" validate:"required,email,max=254"`
	Password string `json:"password" binding:"required" validate:"required,min=6,max=72"`
}

// LoginRequest represents POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// EditNameRequest represents PUT /api/auth/me/name
type EditNameRequest struct {
	Name string `json:"name" binding:"required" validate:"required,max=100"`
}

// EditPasswordRequest represents PUT /api/auth/me/password
type EditPasswordRequest struct {
	Password string `json:"password" binding:"required" validate:"required,min=6,max=72"`
}

// TokenResponse is returned after a successful register or login
type TokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// ToggleFavoriteRequest represents POST /api/favorites/toggle
type ToggleFavoriteRequest struct {
	ID    string `json:"idDrink" binding:"required" validate:"required,max=32"`
	Name  string `json:"strDrink" binding:"required" validate:"required"`
	Thumb string `json:"strDrinkThumb"`
}

// Drink returns the drink described by the request
func (r *ToggleFavoriteRequest) Drink() Drink {
	return Drink{
		ID:    r.ID,
		Name:  r.Name,
		Thumb: r.Thumb,
	}
}

// ToggleFavoriteResponse reports the favorite state after a toggle
type ToggleFavoriteResponse struct {
	DrinkID    string `json:"idDrink"`
	IsFavorite bool   `json:"is_favorite"`
}

// DrinksResponse is the list payload of the REST API. Drinks is null when there is no data.
type DrinksResponse struct {
	Drinks []Drink `json:"drinks"`
}

// OptionsListResponse is the payload of GET /api/filters/:dimension
type OptionsListResponse struct {
	Dimension Dimension `json:"dimension"`
	Options   []string  `json:"options"`
}

// DrinkDetailsView is the details payload with ingredient pairs flattened
type DrinkDetailsView struct {
	DrinkDetails
	IngredientList []Ingredient `json:"ingredients"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
