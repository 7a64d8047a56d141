package game

import (
	"fmt"
	"log/slog"
	"slices"
)

// Phase enumerates the round state machine.
type Phase string

const (
	PhaseSelectStat Phase = "selectStat"
	PhaseBattle     Phase = "battle"
	PhaseFinished   Phase = "gameFinished"
)

// Participant names one side of a match at creation time.
type Participant struct {
	UUID string
	Name string
}

// Game is the round state machine for a single match between two players.
// It is pure state plus transitions: no I/O, no timers, no locking. Events
// are delivered synchronously through the emit sink before Execute returns,
// so a selection is fully applied, including any phase transition, before
// the caller observes the result.
type Game struct {
	players     [2]*Player
	phase       Phase
	lockedStats []string
	winner      string
	winPoints   int
	emit        func(Event)
	log         *slog.Logger
}

// New creates a game for the two participants. winPoints is the score
// needed to win the match; emit receives every event the game produces.
func New(participants [2]Participant, winPoints int, emit func(Event), log *slog.Logger) *Game {
	return &Game{
		players: [2]*Player{
			newPlayer(participants[0].Name, participants[0].UUID),
			newPlayer(participants[1].Name, participants[1].UUID),
		},
		phase:     PhaseSelectStat,
		winPoints: winPoints,
		emit:      emit,
		log:       log,
	}
}

// Execute applies a command from the orchestrator. Unknown actions are
// logged and ignored. A selectStat from a UUID that is not one of the two
// players is a broken invariant and returns an error.
func (g *Game) Execute(cmd Command) error {
	if g.phase == PhaseFinished {
		g.log.Warn("game finished, dropping command", "action", cmd.Action)
		return nil
	}

	switch cmd.Action {
	case ActionAssignNewPokemon:
		g.handleAssignNewPokemon(cmd)
		return nil
	case ActionSelectStat:
		return g.handleSelectStat(cmd)
	case ActionBattleEnd:
		g.evaluateBattleOutcome()
		return nil
	default:
		g.log.Warn("unknown game command", "action", cmd.Action)
		return nil
	}
}

func (g *Game) handleAssignNewPokemon(cmd Command) {
	g.players[0].setPokemon(cmd.Pokemon[0])
	g.players[1].setPokemon(cmd.Pokemon[1])
	g.phase = PhaseSelectStat
}

func (g *Game) handleSelectStat(cmd Command) error {
	if g.phase != PhaseSelectStat {
		g.log.Warn("selection outside selectStat phase, dropping", "stat", cmd.Stat)
		return nil
	}

	if slices.Contains(g.lockedStats, cmd.Stat) {
		g.log.Warn("stat is locked", "stat", cmd.Stat)
		g.emit(Event{
			Type:     EventInvalidStatSelect,
			ClientID: cmd.ClientID,
			Reason:   fmt.Sprintf("Stat %s is locked.", cmd.Stat),
		})
		return nil
	}

	player, err := g.findPlayer(cmd.ClientID)
	if err != nil {
		return err
	}
	player.selectStat(cmd.Stat, player.rawStat(cmd.Stat))

	if g.allSelected() {
		g.phase = PhaseBattle
		g.emit(Event{Type: EventAllSelected})
	}
	return nil
}

// evaluateBattleOutcome resolves a round. Each player's chosen stat is
// compared against the opponent's raw value for that same stat kind; the two
// comparisons are summed with player one's perspective positive. A zero
// accumulator is a tie round: both chosen kinds become locked and the phase
// returns to selectStat with no score change.
func (g *Game) evaluateBattleOutcome() {
	p1, p2 := g.players[0], g.players[1]
	if p1.SelectedStat == nil || p2.SelectedStat == nil {
		g.log.Warn("battle end without both selections, dropping")
		return
	}
	score := 0

	if p1.SelectedStat.Value > p2.rawStat(p1.SelectedStat.Name) {
		score++
	} else if p1.SelectedStat.Value < p2.rawStat(p1.SelectedStat.Name) {
		score--
	}

	if p2.SelectedStat.Value > p1.rawStat(p2.SelectedStat.Name) {
		score--
	} else if p2.SelectedStat.Value < p1.rawStat(p2.SelectedStat.Name) {
		score++
	}

	switch {
	case score > 0:
		p1.addPoint()
		g.log.Info("round won", "player", p1.Name)
	case score < 0:
		p2.addPoint()
		g.log.Info("round won", "player", p2.Name)
	default:
		g.log.Info("round is a draw")
		g.nextRound()
		return
	}

	if g.hasWinner() {
		g.finish()
	} else {
		g.newBattle()
	}
}

// nextRound is the tie-round path: the contested stat kinds stay off the
// table for the same pair of subjects.
func (g *Game) nextRound() {
	g.lockedStats = append(g.lockedStats, g.players[0].SelectedStat.Name, g.players[1].SelectedStat.Name)
	for _, p := range g.players {
		p.resetSelectedStat()
	}
	g.phase = PhaseSelectStat
}

func (g *Game) newBattle() {
	g.lockedStats = nil
	for _, p := range g.players {
		p.resetSelectedStat()
	}
	g.emit(Event{Type: EventNewBattle})
}

func (g *Game) finish() {
	winner := g.players[0]
	if g.players[1].Points > winner.Points {
		winner = g.players[1]
	}
	g.winner = winner.Name
	g.phase = PhaseFinished
	g.emit(Event{Type: EventGameFinished})
}

func (g *Game) hasWinner() bool {
	return g.players[0].Points >= g.winPoints || g.players[1].Points >= g.winPoints
}

func (g *Game) findPlayer(uuid string) (*Player, error) {
	for _, p := range g.players {
		if p.UUID == uuid {
			return p, nil
		}
	}
	return nil, fmt.Errorf("player with client ID %q not found in this game", uuid)
}

func (g *Game) allSelected() bool {
	return g.players[0].SelectedStat != nil && g.players[1].SelectedStat != nil
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Winner returns the winning player's name, or "" while the match runs.
func (g *Game) Winner() string {
	return g.winner
}
