package game

import "pokeduel/internal/domain"

// ActionType names an inbound game command.
type ActionType string

const (
	ActionSelectStat       ActionType = "selectStat"
	ActionAssignNewPokemon ActionType = "assignNewPokemon"
	ActionBattleEnd        ActionType = "battleEnd"
)

// Command is the single entry point into a game. ClientID and Stat carry a
// player's selection; Pokemon carries the pair for an assignment.
type Command struct {
	Action   ActionType
	ClientID string
	Stat     string
	Pokemon  [2]*domain.Pokemon
}

// EventType names an event the game emits while a command executes.
type EventType string

const (
	EventAllSelected       EventType = "allSelected"
	EventNewBattle         EventType = "newBattle"
	EventGameFinished      EventType = "gameFinished"
	EventInvalidStatSelect EventType = "invalidStatSelect"
)

// Event is emitted synchronously through the game's sink. ClientID and
// Reason are set for events targeting one player.
type Event struct {
	Type     EventType
	ClientID string
	Reason   string
}
