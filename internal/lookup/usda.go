package lookup

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gwi.com/calorie-chat/internal/food"
)

const (
	maxResults     = 5
	energyNutrient = "Energy"
	defaultUnit    = "serving"
)

// Searcher resolves a free-text query to food items.
type Searcher interface {
	Search(ctx context.Context, query string) ([]food.Item, error)
}

// Client searches the USDA FoodData Central database.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientConfig struct {
	Endpoint  string
	APIKey    string
	RateLimit float64 // requests per second, 0 disables pacing
	Timeout   time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

type searchResponse struct {
	Foods []struct {
		Description   string `json:"description"`
		FoodNutrients []struct {
			NutrientName string  `json:"nutrientName"`
			UnitName     string  `json:"unitName"`
			Value        float64 `json:"value"`
		} `json:"foodNutrients"`
		ServingSize     float64 `json:"servingSize"`
		ServingSizeUnit string  `json:"servingSizeUnit"`
	} `json:"foods"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search issues one search request for query and maps up to five results.
// Failures are *LookupError; an empty result set is *NoResultsError.
func (c *Client) Search(ctx context.Context, query string) ([]food.Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &LookupError{Message: "rate limiter wait aborted", Err: err}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	u := c.endpoint + "/foods/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &LookupError{Message: "failed to create search request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{Message: "failed to call USDA search", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Message: "failed to read USDA search response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Failed to fetch from USDA API"
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
			msg = er.Error.Message
		}
		log.Printf("USDA API error %d: %s", resp.StatusCode, msg)
		return nil, &LookupError{Message: msg, StatusCode: resp.StatusCode}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &LookupError{Message: "failed to parse USDA search JSON", Err: err}
	}
	if len(sr.Foods) == 0 {
		return nil, &NoResultsError{Query: query}
	}

	n := min(len(sr.Foods), maxResults)
	items := make([]food.Item, 0, n)
	for _, f := range sr.Foods[:n] {
		var energy float64
		found := false
		for _, nut := range f.FoodNutrients {
			if nut.NutrientName != energyNutrient {
				continue
			}
			// Some records list Energy in both kcal and kJ.
			if strings.EqualFold(nut.UnitName, "KCAL") {
				energy = nut.Value
				break
			}
			if !found {
				energy = nut.Value
				found = true
			}
		}

		unit := defaultUnit
		if f.ServingSize != 0 {
			unit = strconv.FormatFloat(f.ServingSize, 'f', -1, 64) + f.ServingSizeUnit
		}

		items = append(items, food.Item{
			Name:     f.Description,
			Calories: int(math.Round(energy)),
			Quantity: 1,
			Unit:     unit,
		})
	}
	return items, nil
}
