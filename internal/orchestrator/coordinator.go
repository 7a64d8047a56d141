package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pokeduel/internal/domain"
	"pokeduel/internal/game"
	"pokeduel/internal/identity"
	"pokeduel/internal/metrics"
	"pokeduel/internal/room"
)

// Push kinds the coordinator emits through the gateway.
const (
	PushUpdate          = "update"
	PushRoomFull        = "roomFull"
	PushRoomCrash       = "roomCrash"
	PushNameError       = "nameError"
	PushSelectStatError = "selectStatError"
)

// Pusher delivers a message to a single connection. Implemented by the
// websocket gateway; delivery is best effort.
type Pusher interface {
	Push(conn int64, kind string, payload any)
}

// SubjectSource produces one random pokemon per call.
type SubjectSource interface {
	RandomPokemon(ctx context.Context) (*domain.Pokemon, error)
}

const fetchTimeout = 15 * time.Second

type reasonPayload struct {
	Reason string `json:"reason"`
}

// Coordinator sequences every asynchronous step (pokemon fetches, the
// battle timer, connection events) against the synchronous room state. A
// single mutex serializes all entry points, so within one room no command
// interleaves with another; the two suspension points (fetch, timer)
// release the lock and re-enter through the stale-room guard.
type Coordinator struct {
	mu             sync.Mutex
	registry       *identity.Registry
	rooms          *room.Manager
	subjects       SubjectSource
	pusher         Pusher
	battleDuration time.Duration
	log            *slog.Logger
}

// NewCoordinator wires the registry and room manager around the given
// subject source.
func NewCoordinator(subjects SubjectSource, winPoints int, battleDuration time.Duration, log *slog.Logger) *Coordinator {
	c := &Coordinator{
		registry:       identity.NewRegistry(log),
		rooms:          room.NewManager(winPoints, log),
		subjects:       subjects,
		battleDuration: battleDuration,
		log:            log,
	}
	c.rooms.OnEvent(c.handleGameEvent)
	return c
}

// SetPusher installs the outbound side of the gateway. Must be called
// before the first connection; kept separate from the constructor to break
// the coordinator/gateway cycle.
func (c *Coordinator) SetPusher(p Pusher) {
	c.pusher = p
}

// RoomCount reports the number of open rooms, for health endpoints.
func (c *Coordinator) RoomCount() int {
	return c.rooms.Count()
}

// OnConnect registers or rebinds the identity behind a new connection. A
// reconnecting participant who is still in a room gets the current state
// pushed immediately.
func (c *Coordinator) OnConnect(conn int64, uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.Register(conn, uuid)
	if p.RoomID != 0 {
		_ = c.guard(p.RoomID, conn, func() error {
			return c.broadcast(p.RoomID)
		})
	}
}

// OnDisconnect releases the connection mapping only; room membership stays
// intact so the participant can reconnect into their session.
func (c *Coordinator) OnDisconnect(conn int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.ReleaseConn(conn)
}

// OnNameEnter validates the submitted display name and, if it passes, puts
// the participant into a room.
func (c *Coordinator) OnNameEnter(conn int64, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.ByConn(conn)
	if p == nil {
		c.log.Warn("name from unknown connection", "conn", conn)
		return nil
	}

	if p.RoomID != 0 {
		c.log.Warn("name entered while already in a room", "name", p.Name, "room", p.RoomID)
		return nil
	}

	if !IsValidName(name) {
		c.log.Warn("invalid name entered", "name", name)
		c.pusher.Push(conn, PushNameError, nil)
		return nil
	}

	p.Name = name
	c.log.Info("name entered", "name", name)

	roomID, err := c.rooms.Assign(p)
	if errors.Is(err, room.ErrRoomFull) {
		c.pusher.Push(conn, PushRoomFull, nil)
		return nil
	}
	if err != nil {
		return err
	}
	p.RoomID = roomID

	return c.guard(roomID, conn, func() error {
		return c.broadcast(roomID)
	})
}

// OnReady marks the participant ready; when the room reports full and all
// ready, the match starts and the first pair of subjects is fetched.
func (c *Coordinator) OnReady(conn int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.ByConn(conn)
	if p == nil {
		return nil
	}
	roomID := p.RoomID

	return c.guard(roomID, conn, func() error {
		if err := c.rooms.SetReady(roomID, p.UUID); err != nil {
			return err
		}
		c.log.Info("participant ready", "name", p.Name, "room", roomID)
		if err := c.broadcast(roomID); err != nil {
			return err
		}

		ready, err := c.rooms.IsReady(roomID)
		if err != nil {
			return err
		}
		if ready {
			return c.startGame(roomID)
		}
		return nil
	})
}

// OnLeaveRoom removes the participant from their room explicitly.
func (c *Coordinator) OnLeaveRoom(conn int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.ByConn(conn)
	if p == nil {
		return nil
	}
	roomID := p.RoomID

	return c.guard(roomID, conn, func() error {
		if err := c.rooms.Remove(roomID, p); err != nil {
			return err
		}
		p.RoomID = 0
		return nil
	})
}

// OnGameCommand forwards a client action into their room's game and
// broadcasts the resulting state. Events the game emits while the command
// executes are handled before the broadcast goes out.
func (c *Coordinator) OnGameCommand(conn int64, action, stat string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.ByConn(conn)
	if p == nil {
		return nil
	}

	// Only stat selection may originate from a client; assignNewPokemon and
	// battleEnd are issued by the coordinator itself.
	if game.ActionType(action) != game.ActionSelectStat {
		c.log.Warn("rejected client game action", "name", p.Name, "action", action)
		return nil
	}

	roomID := p.RoomID
	c.log.Info("game action", "name", p.Name, "action", action)

	cmd := game.Command{
		Action:   game.ActionType(action),
		Stat:     stat,
		ClientID: p.UUID,
	}

	return c.guard(roomID, conn, func() error {
		if err := c.rooms.Forward(roomID, cmd); err != nil {
			return err
		}
		return c.broadcast(roomID)
	})
}

// handleGameEvent reacts to events a game emitted synchronously while a
// command executed. The coordinator lock is already held here.
func (c *Coordinator) handleGameEvent(ev room.Event) {
	c.log.Info("game event", "event", ev.Type, "room", ev.RoomID)

	switch ev.Type {
	case game.EventAllSelected:
		if err := c.guard(ev.RoomID, 0, func() error { return c.broadcast(ev.RoomID) }); err != nil {
			c.log.Error("broadcast after allSelected failed", "err", err)
		}
		c.startBattle(ev.RoomID)

	case game.EventInvalidStatSelect:
		p := c.registry.ByUUID(ev.ClientID)
		if p != nil && p.Conn != 0 {
			c.pusher.Push(p.Conn, PushSelectStatError, reasonPayload{Reason: ev.Reason})
		}

	case game.EventNewBattle:
		go c.assignNewPokemon(ev.RoomID)

	case game.EventGameFinished:
		metrics.MatchesFinished.Inc()
		c.log.Info("match finished", "room", ev.RoomID)

	default:
		c.log.Warn("unknown game event", "event", ev.Type)
	}
}

// startGame creates the match and kicks off the first subject fetch. The
// fetch completes asynchronously; its callback re-enters through the guard.
func (c *Coordinator) startGame(roomID int64) error {
	c.log.Info("game starting", "room", roomID)
	if err := c.rooms.StartGame(roomID); err != nil {
		return err
	}
	go c.assignNewPokemon(roomID)
	return nil
}

// startBattle schedules the round resolution after the reveal delay.
func (c *Coordinator) startBattle(roomID int64) {
	c.log.Info("battle starting", "room", roomID)
	time.AfterFunc(c.battleDuration, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		err := c.guard(roomID, 0, func() error {
			if err := c.rooms.Forward(roomID, game.Command{Action: game.ActionBattleEnd}); err != nil {
				return err
			}
			return c.broadcast(roomID)
		})
		if err != nil {
			c.log.Error("battle end failed", "room", roomID, "err", err)
		}
	})
}

// assignNewPokemon fetches two independent subjects concurrently, then
// issues the assign command and broadcasts. Runs outside the lock while
// fetching; a room deleted in the meantime is caught by the guard.
func (c *Coordinator) assignNewPokemon(roomID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var p1, p2 *domain.Pokemon
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p1, err = c.subjects.RandomPokemon(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		p2, err = c.subjects.RandomPokemon(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.log.Error("pokemon fetch failed", "room", roomID, "err", err)
		c.mu.Lock()
		c.crashRoom(roomID, 0)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.guard(roomID, 0, func() error {
		cmd := game.Command{
			Action:  game.ActionAssignNewPokemon,
			Pokemon: [2]*domain.Pokemon{p1, p2},
		}
		if err := c.rooms.Forward(roomID, cmd); err != nil {
			return err
		}
		return c.broadcast(roomID)
	})
	if err != nil {
		c.log.Error("assign pokemon failed", "room", roomID, "err", err)
	}
}

// guard runs fn and recovers from the one expected error class: a room id
// that no longer resolves. Recovery notifies and resets every participant
// still referencing the vanished room; all other errors propagate.
func (c *Coordinator) guard(roomID int64, conn int64, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if errors.Is(err, room.ErrNotFound) {
		c.log.Error("handled stale room reference", "room", roomID, "err", err)
		c.crashRoom(roomID, conn)
		return nil
	}
	return err
}

// crashRoom is the teardown path: every occupant still pointing at the room
// gets a crash push and a session reset; the room itself is discarded. The
// triggering connection is notified even if its record no longer resolves.
func (c *Coordinator) crashRoom(roomID int64, conn int64) {
	notified := false
	if roomID > 0 {
		for _, p := range c.registry.InRoom(roomID) {
			if p.Conn != 0 {
				c.pusher.Push(p.Conn, PushRoomCrash, nil)
				if p.Conn == conn {
					notified = true
				}
			}
			c.registry.ResetSession(p)
		}
		_ = c.rooms.Delete(roomID)
	}
	if conn != 0 && !notified {
		c.pusher.Push(conn, PushRoomCrash, nil)
	}
	metrics.RoomsCrashed.Inc()
}

// broadcast pushes each connected occupant their own view of the room.
// State is snapshotted after the triggering transition, never mid-way.
func (c *Coordinator) broadcast(roomID int64) error {
	participants, err := c.rooms.Participants(roomID)
	if err != nil {
		return err
	}
	for _, p := range participants {
		if p.Conn == 0 {
			continue
		}
		snap, err := c.rooms.ClientState(roomID, p.UUID)
		if err != nil {
			return err
		}
		c.pusher.Push(p.Conn, PushUpdate, snap)
	}
	return nil
}
