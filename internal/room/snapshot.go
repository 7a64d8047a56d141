package room

import "pokeduel/internal/game"

// ClientView is the wire shape of one occupant's identity.
type ClientView struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	RoomID int64  `json:"roomId"`
}

// OccupantView pairs an occupant with their readiness flag.
type OccupantView struct {
	IsReady bool       `json:"isReady"`
	Client  ClientView `json:"client"`
}

// Snapshot is the full client-scoped room state pushed on every update.
// Game is nil until the match starts.
type Snapshot struct {
	ID      int64          `json:"id"`
	Clients []OccupantView `json:"clientRecords"`
	Game    *game.Snapshot `json:"game"`
}

func (r *Room) clientState(uuid string) *Snapshot {
	snap := &Snapshot{
		ID:      r.ID,
		Clients: make([]OccupantView, 0, len(r.records)),
	}
	for _, rec := range r.records {
		snap.Clients = append(snap.Clients, OccupantView{
			IsReady: rec.ready,
			Client: ClientView{
				UUID:   rec.participant.UUID,
				Name:   rec.participant.Name,
				RoomID: rec.participant.RoomID,
			},
		})
	}
	if r.game != nil {
		snap.Game = r.game.ClientState(uuid)
	}
	return snap
}
