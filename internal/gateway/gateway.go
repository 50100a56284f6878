package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/models"
	"github.com/shard-legends/cocktails-service/pkg/metrics"
)

const (
	// DefaultBaseURL is the public TheCocktailDB v1 API with the test key
	DefaultBaseURL = "https://www.thecocktaildb.com/api/json/v1/1/"

	// DefaultTimeout bounds every remote call
	DefaultTimeout = 30 * time.Second

	endpointFilter = "filter.php"
	endpointSearch = "search.php"
	endpointLookup = "lookup.php"
	endpointList   = "list.php"

	maxResponseBytes = 4 << 20
)

// ErrUnexpectedStatus is returned when the recipe API answers with a non-200 status
var ErrUnexpectedStatus = errors.New("unexpected recipe API status")

// RecipeGateway is the remote recipe catalog
type RecipeGateway interface {
	FilterByAlcoholic(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByCategory(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByGlass(ctx context.Context, value string) (*models.DrinkResponse, error)
	FilterByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error)
	SearchByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error)
	SearchByName(ctx context.Context, query string) (*models.DrinkDetailsResponse, error)
	LookupByID(ctx context.Context, id string) (*models.DrinkDetailsResponse, error)

	ListAlcoholic(ctx context.Context) (*models.OptionsResponse, error)
	ListCategories(ctx context.Context) (*models.OptionsResponse, error)
	ListGlasses(ctx context.Context) (*models.OptionsResponse, error)
	ListIngredients(ctx context.Context) (*models.OptionsResponse, error)
}

// Metrics is the subset of metrics.ServiceMetrics used by the gateway
type Metrics interface {
	RecordGatewayRequest(endpoint, status string, duration time.Duration)
}

// HTTPRecipeGateway implements RecipeGateway over HTTP
type HTTPRecipeGateway struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
	metrics    Metrics
}

// NewHTTPRecipeGateway creates a gateway with the default timeout
func NewHTTPRecipeGateway(baseURL string, logger *zap.Logger, m Metrics) (*HTTPRecipeGateway, error) {
	return NewHTTPRecipeGatewayWithTimeout(baseURL, DefaultTimeout, logger, m)
}

// NewHTTPRecipeGatewayWithTimeout creates a gateway with a custom timeout
func NewHTTPRecipeGatewayWithTimeout(baseURL string, timeout time.Duration, logger *zap.Logger, m Metrics) (*HTTPRecipeGateway, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// relative endpoint resolution needs the trailing slash
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid recipe API base URL")
	}
	if m == nil {
		m = metrics.NewServiceMetrics(nil)
	}

	return &HTTPRecipeGateway{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}, nil
}

func (g *HTTPRecipeGateway) FilterByAlcoholic(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return g.drinks(ctx, endpointFilter, "a", value)
}

func (g *HTTPRecipeGateway) FilterByCategory(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return g.drinks(ctx, endpointFilter, "c", value)
}

func (g *HTTPRecipeGateway) FilterByGlass(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return g.drinks(ctx, endpointFilter, "g", value)
}

func (g *HTTPRecipeGateway) FilterByIngredient(ctx context.Context, value string) (*models.DrinkResponse, error) {
	return g.drinks(ctx, endpointFilter, "i", value)
}

func (g *HTTPRecipeGateway) SearchByFirstLetter(ctx context.Context, letter string) (*models.DrinkResponse, error) {
	return g.drinks(ctx, endpointSearch, "f", letter)
}

func (g *HTTPRecipeGateway) SearchByName(ctx context.Context, query string) (*models.DrinkDetailsResponse, error) {
	return g.details(ctx, endpointSearch, "s", query)
}

func (g *HTTPRecipeGateway) LookupByID(ctx context.Context, id string) (*models.DrinkDetailsResponse, error) {
	return g.details(ctx, endpointLookup, "i", id)
}

func (g *HTTPRecipeGateway) ListAlcoholic(ctx context.Context) (*models.OptionsResponse, error) {
	return g.options(ctx, "a")
}

func (g *HTTPRecipeGateway) ListCategories(ctx context.Context) (*models.OptionsResponse, error) {
	return g.options(ctx, "c")
}

func (g *HTTPRecipeGateway) ListGlasses(ctx context.Context) (*models.OptionsResponse, error) {
	return g.options(ctx, "g")
}

func (g *HTTPRecipeGateway) ListIngredients(ctx context.Context) (*models.OptionsResponse, error) {
	return g.options(ctx, "i")
}

// Health probes the recipe API with the cheapest list call
func (g *HTTPRecipeGateway) Health(ctx context.Context) error {
	_, err := g.options(ctx, "a")
	if err != nil {
		return errors.Wrap(err, "recipe API health check failed")
	}
	return nil
}

func (g *HTTPRecipeGateway) drinks(ctx context.Context, endpoint, param, value string) (*models.DrinkResponse, error) {
	drinks, err := fetch[models.Drink](ctx, g, endpoint, url.Values{param: {value}})
	if err != nil {
		return nil, err
	}
	return &models.DrinkResponse{Drinks: drinks}, nil
}

func (g *HTTPRecipeGateway) details(ctx context.Context, endpoint, param, value string) (*models.DrinkDetailsResponse, error) {
	drinks, err := fetch[models.DrinkDetails](ctx, g, endpoint, url.Values{param: {value}})
	if err != nil {
		return nil, err
	}
	return &models.DrinkDetailsResponse{Drinks: drinks}, nil
}

func (g *HTTPRecipeGateway) options(ctx context.Context, param string) (*models.OptionsResponse, error) {
	records, err := fetch[models.OptionRecord](ctx, g, endpointList, url.Values{param: {"list"}})
	if err != nil {
		return nil, err
	}
	return &models.OptionsResponse{Drinks: records}, nil
}

// envelope is the shape shared by every endpoint. The remote side sends
// null, an empty body, or a "None Found" string when nothing matched.
type envelope struct {
	Drinks json.RawMessage `json:"drinks"`
}

// fetch calls endpoint and decodes the drinks collection into []T.
// A missing collection decodes to nil.
func fetch[T any](ctx context.Context, g *HTTPRecipeGateway, endpoint string, params url.Values) (items []T, err error) {
	start := time.Now()
	defer func() {
		g.metrics.RecordGatewayRequest(endpoint, metrics.StatusLabel(err), time.Since(start))
	}()

	target := g.baseURL.ResolveReference(&url.URL{Path: endpoint, RawQuery: params.Encode()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "%s returned %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s response", endpoint)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", endpoint)
	}
	raw := bytes.TrimSpace(env.Drinks)
	if len(raw) == 0 || raw[0] != '[' {
		g.logger.Debug("Recipe API returned no collection",
			zap.String("endpoint", endpoint),
			zap.String("query", params.Encode()))
		return nil, nil
	}

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s drinks", endpoint)
	}
	return items, nil
}
