package session

import "github.com/shard-legends/cocktails-service/internal/models"

// Client message types
const (
	TypeFilter    = "filter"
	TypeSearch    = "search"
	TypeOptions   = "options"
	TypeDetails   = "details"
	TypeFavorites = "favorites"
	TypeToggle    = "toggle"
)

// Server message types
const (
	TypeCocktails     = "cocktails"
	TypeSearchResults = "search"
	TypeOptionsList   = "options"
	TypeDrinkDetails  = "details"
	TypeFavoritesList = "favorites"
	TypeToggled       = "toggled"
	TypeError         = "error"
)

// Toggle sources select which screen's published state reflects a toggle
const (
	SourceList      = "list"
	SourceSearch    = "search"
	SourceDetails   = "details"
	SourceFavorites = "favorites"
)

// ClientMessage is one request from the client. Only the fields of its type are read.
type ClientMessage struct {
	Type string `json:"type"`

	// filter
	Filter string `json:"filter,omitempty"`
	Value  string `json:"value,omitempty"`

	// search
	Query string `json:"query,omitempty"`

	// options
	Dimension string `json:"dimension,omitempty"`

	// details
	ID string `json:"id,omitempty"`

	// toggle
	Drink  *models.ToggleFavoriteRequest `json:"drink,omitempty"`
	Source string                        `json:"source,omitempty"`
}

// ServerMessage is pushed to the client whenever an orchestrator publishes
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
