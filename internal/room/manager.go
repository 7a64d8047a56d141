package room

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"pokeduel/internal/game"
	"pokeduel/internal/identity"
	"pokeduel/internal/metrics"
)

// ErrNotFound is returned by every Manager method that is handed a room id
// which no longer resolves. This is the one error class the orchestrator
// recovers from; everything else propagates.
var ErrNotFound = errors.New("room not found")

// ErrRoomFull is returned when a participant cannot be admitted.
var ErrRoomFull = errors.New("room is full")

// Manager creates, indexes and garbage-collects rooms. Matchmaking is
// greedy first-fit over currently open rooms; ids increase monotonically
// and are never reused. All map mutations are single-step under the lock.
type Manager struct {
	mu        sync.Mutex
	rooms     map[int64]*Room
	nextID    int64
	winPoints int
	onEvent   func(Event)
	log       *slog.Logger
}

func NewManager(winPoints int, log *slog.Logger) *Manager {
	return &Manager{
		rooms:     make(map[int64]*Room),
		nextID:    1,
		winPoints: winPoints,
		onEvent:   func(Event) {},
		log:       log,
	}
}

// OnEvent installs the sink that receives game events from every room.
// Set once by the orchestrator before any room is created.
func (m *Manager) OnEvent(fn func(Event)) {
	m.onEvent = fn
}

// Assign joins the first open room with a free slot, or opens a new one.
func (m *Manager) Assign(p *identity.Participant) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := int64(1); id < m.nextID; id++ {
		r, ok := m.rooms[id]
		if ok && !r.isFull() {
			if !r.add(p) {
				return 0, ErrRoomFull
			}
			return r.ID, nil
		}
	}

	r := m.createRoom()
	r.add(p)
	return r.ID, nil
}

// Add admits a participant to a specific room.
func (m *Manager) Add(roomID int64, p *identity.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return err
	}
	if !r.add(p) {
		return fmt.Errorf("%w: room %d", ErrRoomFull, roomID)
	}
	return nil
}

// Remove takes a participant out of a room and deletes the room once it is
// empty.
func (m *Manager) Remove(roomID int64, p *identity.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return err
	}
	r.remove(p)
	if r.isEmpty() {
		m.deleteLocked(roomID)
	}
	return nil
}

// Forward hands a command to the room's game instance.
func (m *Manager) Forward(roomID int64, cmd game.Command) error {
	m.mu.Lock()
	r, err := m.room(roomID)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	// Executed outside the map lock: the game emits events synchronously
	// and their handlers call back into the manager.
	return r.forward(cmd)
}

// SetReady flags a participant ready in their room.
func (m *Manager) SetReady(roomID int64, uuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return err
	}
	r.setReady(uuid)
	return nil
}

// IsReady reports whether a room is full with every occupant ready.
func (m *Manager) IsReady(roomID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return false, err
	}
	return r.isReady(), nil
}

// StartGame creates the match for a full-and-ready room.
func (m *Manager) StartGame(roomID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return err
	}
	r.startGame(m.winPoints)
	m.log.Info("game started", "room", roomID)
	return nil
}

// Participants lists a room's occupants.
func (m *Manager) Participants(roomID int64) ([]*identity.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return nil, err
	}
	return r.participants(), nil
}

// ClientState builds the client-scoped snapshot of a room for one occupant.
func (m *Manager) ClientState(roomID int64, uuid string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(roomID)
	if err != nil {
		return nil, err
	}
	return r.clientState(uuid), nil
}

// Delete removes a room outright, crash path included.
func (m *Manager) Delete(roomID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, roomID)
	}
	m.deleteLocked(roomID)
	return nil
}

// Count returns the number of open rooms.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

func (m *Manager) createRoom() *Room {
	id := m.nextID
	m.nextID++

	r := newRoom(id, func(ev Event) { m.onEvent(ev) }, m.log)
	m.rooms[id] = r
	metrics.RoomsActive.Inc()
	m.log.Info("room created", "room", id)
	return r
}

func (m *Manager) deleteLocked(roomID int64) {
	delete(m.rooms, roomID)
	metrics.RoomsActive.Dec()
	m.log.Info("room deleted", "room", roomID)
}

func (m *Manager) room(roomID int64) (*Room, error) {
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, roomID)
	}
	return r, nil
}
