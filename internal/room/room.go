package room

import (
	"log/slog"

	"pokeduel/internal/game"
	"pokeduel/internal/identity"
)

// Event is a game event enriched with the id of the room it came from as it
// travels up to the orchestrator.
type Event struct {
	RoomID int64
	game.Event
}

type record struct {
	participant *identity.Participant
	ready       bool
}

// Room pairs up to two participants for one match. The room owns its game
// exclusively; the game never outlives the room.
type Room struct {
	ID      int64
	records []*record
	game    *game.Game
	emit    func(Event)
	log     *slog.Logger
}

func newRoom(id int64, emit func(Event), log *slog.Logger) *Room {
	return &Room{ID: id, emit: emit, log: log}
}

// add admits a participant unless the room is full or they are already in.
func (r *Room) add(p *identity.Participant) bool {
	for _, rec := range r.records {
		if rec.participant.UUID == p.UUID {
			return false
		}
	}
	if r.isFull() {
		return false
	}
	r.records = append(r.records, &record{participant: p})
	return true
}

func (r *Room) remove(p *identity.Participant) {
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.participant.UUID != p.UUID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
}

func (r *Room) setReady(uuid string) {
	for _, rec := range r.records {
		if rec.participant.UUID == uuid {
			rec.ready = true
		}
	}
}

// startGame creates the match for the two current occupants. Events from
// the game are forwarded synchronously with the room id attached.
func (r *Room) startGame(winPoints int) {
	participants := [2]game.Participant{
		{UUID: r.records[0].participant.UUID, Name: r.records[0].participant.Name},
		{UUID: r.records[1].participant.UUID, Name: r.records[1].participant.Name},
	}
	r.game = game.New(participants, winPoints, func(ev game.Event) {
		r.emit(Event{RoomID: r.ID, Event: ev})
	}, r.log.With("room", r.ID))
}

func (r *Room) forward(cmd game.Command) error {
	if r.game == nil {
		return nil
	}
	return r.game.Execute(cmd)
}

func (r *Room) participants() []*identity.Participant {
	out := make([]*identity.Participant, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.participant)
	}
	return out
}

func (r *Room) isFull() bool {
	return len(r.records) >= 2
}

func (r *Room) isEmpty() bool {
	return len(r.records) == 0
}

// isReady reports whether the room is full and every occupant flagged ready.
func (r *Room) isReady() bool {
	if !r.isFull() {
		return false
	}
	for _, rec := range r.records {
		if !rec.ready {
			return false
		}
	}
	return true
}
