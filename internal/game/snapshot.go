package game

import "pokeduel/internal/domain"

// PlayerView is the client-facing projection of one player.
type PlayerView struct {
	Name           string          `json:"name"`
	UUID           string          `json:"uuid"`
	Points         int             `json:"points"`
	Pokemon        *domain.Pokemon `json:"pokemon"`
	SelectedStat   *StatChoice     `json:"selectedStat"`
	ChallengeStat  *StatChoice     `json:"challengeStat,omitempty"`
	ChallengedStat *StatChoice     `json:"challengedStat,omitempty"`
}

// Snapshot is the client-scoped view of a game, oriented around the
// receiving player.
type Snapshot struct {
	Phase       Phase       `json:"phase"`
	LockedStats []string    `json:"lockedStats"`
	Winner      string      `json:"winner"`
	You         *PlayerView `json:"you"`
	Opponent    *PlayerView `json:"opponent"`
}

// ClientState builds the snapshot for the player identified by uuid. The
// opponent's unresolved selection is hidden while stats are being chosen;
// during the battle phase both sides' challenge pairings are spelled out.
func (g *Game) ClientState(uuid string) *Snapshot {
	you, opponent := g.players[0], g.players[1]
	if opponent.UUID == uuid {
		you, opponent = opponent, you
	}

	snap := &Snapshot{
		Phase:       g.phase,
		LockedStats: cloneStats(g.lockedStats),
		Winner:      g.winner,
		You:         viewOf(you),
		Opponent:    viewOf(opponent),
	}

	if g.phase == PhaseSelectStat {
		snap.Opponent.SelectedStat = nil
	}

	// Selections are already reset between battleEnd and the next subject
	// assignment, so the reveal enrichment needs both picks present.
	if g.phase == PhaseBattle && you.SelectedStat != nil && opponent.SelectedStat != nil {
		snap.You.ChallengeStat = you.SelectedStat
		snap.Opponent.ChallengeStat = opponent.SelectedStat
		snap.You.ChallengedStat = &StatChoice{
			Name:  opponent.SelectedStat.Name,
			Value: you.rawStat(opponent.SelectedStat.Name),
		}
		snap.Opponent.ChallengedStat = &StatChoice{
			Name:  you.SelectedStat.Name,
			Value: opponent.rawStat(you.SelectedStat.Name),
		}
	}

	return snap
}

func viewOf(p *Player) *PlayerView {
	return &PlayerView{
		Name:         p.Name,
		UUID:         p.UUID,
		Points:       p.Points,
		Pokemon:      p.Pokemon,
		SelectedStat: p.SelectedStat,
	}
}

// cloneStats always yields a non-nil slice so the wire shape stays an array.
func cloneStats(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
