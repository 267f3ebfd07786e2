package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"pokebot/internal/config"
	"pokebot/internal/constants"
	"pokebot/internal/domain"
	"pokebot/internal/game"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// PokeAPIClient talks to the remote creature catalog. Responses are cached
// process-locally with a TTL; any upstream failure surfaces to the rules as
// game.ErrNotFound and is never retried.
type PokeAPIClient struct {
	baseURL string
	client  *fasthttp.Client

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	fetched time.Time
}

func NewPokeAPIClient(cfg *config.Config) *PokeAPIClient {
	return &PokeAPIClient{
		baseURL: strings.TrimSuffix(cfg.PokeAPIBaseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		cache: map[string]cacheEntry{},
	}
}

// Lookup fetches a creature template by name or numeric id and turns it
// into a fresh domain creature with a new identity.
func (c *PokeAPIClient) Lookup(ctx context.Context, key string) (*domain.Creature, error) {
	data, err := c.getPokemon(ctx, strings.ToLower(key))
	if err != nil {
		return nil, err
	}

	creature := &domain.Creature{
		CreatureID: uuid.New().String(),
		Name:       capitalize(data.Name),
		Attack:     50,
		Defense:    50,
		HP:         50,
	}
	for _, t := range data.Types {
		creature.Types = append(creature.Types, t.Type.Name)
	}
	for _, s := range data.Stats {
		switch s.Stat.Name {
		case "attack":
			creature.Attack = s.BaseStat
		case "defense":
			creature.Defense = s.BaseStat
		case "hp":
			creature.HP = s.BaseStat
		}
	}
	creature.ImageURL = data.Sprites.Other.OfficialArtwork.FrontDefault
	return creature, nil
}

// ListAll returns up to limit creature names from the catalog.
func (c *PokeAPIClient) ListAll(ctx context.Context, limit int) ([]string, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, limit)
	resp, err := doRequest[listResponse](ctx, c, url)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		names = append(names, r.Name)
	}
	return names, nil
}

// EvolutionTarget returns the next evolution of the named species, or
// game.ErrNotFound when the species does not evolve further.
func (c *PokeAPIClient) EvolutionTarget(ctx context.Context, name string) (string, error) {
	name = strings.ToLower(name)

	species, err := c.getSpecies(ctx, name)
	if err != nil {
		return "", err
	}

	chain, err := doRequest[evolutionChainResponse](ctx, c, species.EvolutionChain.URL)
	if err != nil {
		return "", err
	}

	if target := nextInChain(&chain.Chain, name); target != "" {
		return target, nil
	}
	return "", game.ErrNotFound
}

func nextInChain(node *chainLink, name string) string {
	if node.Species.Name == name {
		if len(node.EvolvesTo) > 0 {
			return node.EvolvesTo[0].Species.Name
		}
		return ""
	}
	for i := range node.EvolvesTo {
		if target := nextInChain(&node.EvolvesTo[i], name); target != "" {
			return target
		}
	}
	return ""
}

func (c *PokeAPIClient) getPokemon(ctx context.Context, key string) (*pokemonResponse, error) {
	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, key)
	return doRequest[pokemonResponse](ctx, c, url)
}

func (c *PokeAPIClient) getSpecies(ctx context.Context, key string) (*speciesResponse, error) {
	url := fmt.Sprintf("%s/pokemon-species/%s", c.baseURL, key)
	return doRequest[speciesResponse](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *PokeAPIClient, url string) (*T, error) {
	if body, ok := client.cached(url); ok {
		var result T
		if err := json.Unmarshal(body, &result); err == nil {
			return &result, nil
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("creature lookup failed: %w", game.ErrNotFound)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("creature lookup returned %d: %w", resp.StatusCode(), game.ErrNotFound)
	}

	body := append([]byte(nil), resp.Body()...)
	client.store(url, body)

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("creature lookup decode failed: %w", game.ErrNotFound)
	}
	return &result, nil
}

func (c *PokeAPIClient) cached(url string) ([]byte, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	entry, ok := c.cache[url]
	if !ok || time.Since(entry.fetched) > constants.LookupCacheTTL {
		return nil, false
	}
	return entry.body, true
}

func (c *PokeAPIClient) store(url string, body []byte) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache[url] = cacheEntry{body: body, fetched: time.Now()}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type pokemonResponse struct {
	Name  string `json:"name"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Species struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"species"`
}

type speciesResponse struct {
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
}

type chainLink struct {
	Species struct {
		Name string `json:"name"`
	} `json:"species"`
	EvolvesTo []chainLink `json:"evolves_to"`
}

type evolutionChainResponse struct {
	Chain chainLink `json:"chain"`
}

type listResponse struct {
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}
