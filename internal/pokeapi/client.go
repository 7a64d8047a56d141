package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"pokeduel/internal/domain"
	"pokeduel/internal/metrics"
)

// ErrNoAPIResponse wraps every failure to obtain a pokemon from the API.
// Callers treat it as fatal for the match being set up.
var ErrNoAPIResponse = errors.New("no response from PokeAPI")

// Client fetches random pokemon from pokeapi.co (or a compatible server).
type Client struct {
	baseURL string
	maxID   int
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a client rolling ids in [1, maxID].
func NewClient(baseURL string, maxID int, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		maxID:   maxID,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// RandomPokemon fetches one random pokemon and reduces it to the domain
// record.
func (c *Client) RandomPokemon(ctx context.Context) (*domain.Pokemon, error) {
	id := rand.IntN(c.maxID) + 1
	url := fmt.Sprintf("%s/pokemon/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.PokeAPIErrors.Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrNoAPIResponse, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.PokeAPIErrors.Inc()
		return nil, fmt.Errorf("%w: %s: status %d", ErrNoAPIResponse, url, resp.StatusCode)
	}

	var raw RawPokemon
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		metrics.PokeAPIErrors.Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrNoAPIResponse, url, err)
	}

	c.log.Debug("fetched pokemon", "id", raw.ID, "name", raw.Name)
	return ParsePokemon(&raw), nil
}
