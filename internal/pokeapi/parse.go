package pokeapi

import "pokeduel/internal/domain"

// RawPokemon mirrors the subset of the PokeAPI response the game needs.
type RawPokemon struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Height int    `json:"height"`
	Types  []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Sprites struct {
		BackDefault string `json:"back_default"`
		Other       struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
}

// ParsePokemon reduces a raw API record to the domain shape. The hyphenated
// special stat names are renamed to their camelCase forms and weight/height
// are folded into the stat map so every comparable value lives in one place.
func ParsePokemon(raw *RawPokemon) *domain.Pokemon {
	stats := map[string]int{
		domain.StatWeight: raw.Weight,
		domain.StatHeight: raw.Height,
	}
	for _, s := range raw.Stats {
		switch s.Stat.Name {
		case "special-attack":
			stats[domain.StatSpecialAttack] = s.BaseStat
		case "special-defense":
			stats[domain.StatSpecialDefense] = s.BaseStat
		default:
			stats[s.Stat.Name] = s.BaseStat
		}
	}

	types := make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		types = append(types, t.Type.Name)
	}

	return &domain.Pokemon{
		ID:    raw.ID,
		Name:  raw.Name,
		Types: types,
		Sprites: domain.Sprites{
			OfficialArtwork: raw.Sprites.Other.OfficialArtwork.FrontDefault,
			BackDefault:     raw.Sprites.BackDefault,
		},
		Stats: stats,
	}
}
