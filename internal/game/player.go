package game

import "pokeduel/internal/domain"

// StatChoice is a resolved stat pick: the kind and the picker's value for it.
type StatChoice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Player is one side of a match.
type Player struct {
	Name         string
	UUID         string
	Points       int
	Pokemon      *domain.Pokemon
	SelectedStat *StatChoice
}

func newPlayer(name, uuid string) *Player {
	return &Player{Name: name, UUID: uuid}
}

func (p *Player) addPoint() {
	p.Points++
}

// setPokemon hands the player a new subject; any pending pick dies with the
// old one.
func (p *Player) setPokemon(pk *domain.Pokemon) {
	p.Pokemon = pk
	p.SelectedStat = nil
}

func (p *Player) selectStat(name string, value int) {
	p.SelectedStat = &StatChoice{Name: name, Value: value}
}

func (p *Player) resetSelectedStat() {
	p.SelectedStat = nil
}

// rawStat reads the player's own value for a stat kind, zero if the subject
// has no such stat.
func (p *Player) rawStat(name string) int {
	if p.Pokemon == nil {
		return 0
	}
	return p.Pokemon.Stats[name]
}
