package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pokebot/internal/config"
	"pokebot/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pikachuJSON = `{
	"name": "pikachu",
	"types": [{"type": {"name": "electric"}}],
	"stats": [
		{"base_stat": 55, "stat": {"name": "attack"}},
		{"base_stat": 40, "stat": {"name": "defense"}},
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	],
	"sprites": {"other": {"official-artwork": {"front_default": "https://img/pikachu.png"}}}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*PokeAPIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPokeAPIClient(&config.Config{PokeAPIBaseURL: srv.URL}), srv
}

func TestLookupParsesCreature(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/pokemon/pikachu", r.URL.Path)
		_, _ = w.Write([]byte(pikachuJSON))
	})

	creature, err := client.Lookup(context.Background(), "Pikachu")
	require.NoError(t, err)

	assert.Equal(t, "Pikachu", creature.Name)
	assert.Equal(t, []string{"electric"}, creature.Types)
	assert.Equal(t, 55, creature.Attack)
	assert.Equal(t, 40, creature.Defense)
	assert.Equal(t, 35, creature.HP)
	assert.Equal(t, "https://img/pikachu.png", creature.ImageURL)
	assert.NotEmpty(t, creature.CreatureID)

	// Each lookup mints a fresh identity even on a cache hit.
	again, err := client.Lookup(context.Background(), "pikachu")
	require.NoError(t, err)
	assert.NotEqual(t, creature.CreatureID, again.CreatureID)
	assert.Equal(t, 1, hits, "second lookup served from cache")
}

func TestLookupUpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Lookup(context.Background(), "missingno")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestEvolutionTarget(t *testing.T) {
	var chainURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon-species/charmander", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"evolution_chain": {"url": "` + chainURL + `"}}`))
	})
	mux.HandleFunc("/evolution-chain/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"chain": {
				"species": {"name": "charmander"},
				"evolves_to": [{
					"species": {"name": "charmeleon"},
					"evolves_to": [{"species": {"name": "charizard"}, "evolves_to": []}]
				}]
			}
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	chainURL = srv.URL + "/evolution-chain/2"

	client := NewPokeAPIClient(&config.Config{PokeAPIBaseURL: srv.URL})

	target, err := client.EvolutionTarget(context.Background(), "Charmander")
	require.NoError(t, err)
	assert.Equal(t, "charmeleon", target)
}

func TestEvolutionTargetFinalForm(t *testing.T) {
	mux := http.NewServeMux()
	var chainURL string
	mux.HandleFunc("/pokemon-species/charizard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"evolution_chain": {"url": "` + chainURL + `"}}`))
	})
	mux.HandleFunc("/evolution-chain/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"chain": {
				"species": {"name": "charmander"},
				"evolves_to": [{
					"species": {"name": "charmeleon"},
					"evolves_to": [{"species": {"name": "charizard"}, "evolves_to": []}]
				}]
			}
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	chainURL = srv.URL + "/evolution-chain/2"

	client := NewPokeAPIClient(&config.Config{PokeAPIBaseURL: srv.URL})

	_, err := client.EvolutionTarget(context.Background(), "charizard")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestListAll(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pokemon", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"results": [
			{"name": "bulbasaur", "url": "u1"},
			{"name": "ivysaur", "url": "u2"},
			{"name": "venusaur", "url": "u3"}
		]}`))
	})

	names, err := client.ListAll(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"bulbasaur", "ivysaur", "venusaur"}, names)
}
