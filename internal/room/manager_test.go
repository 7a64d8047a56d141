package room

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeduel/internal/domain"
	"pokeduel/internal/game"
	"pokeduel/internal/identity"
)

func newTestManager() *Manager {
	return NewManager(3, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func participant(uuid, name string) *identity.Participant {
	return &identity.Participant{UUID: uuid, Name: name}
}

func TestAssignIsGreedyFirstFit(t *testing.T) {
	m := newTestManager()

	id1, err := m.Assign(participant("a", "A"))
	require.NoError(t, err)
	id2, err := m.Assign(participant("b", "B"))
	require.NoError(t, err)
	id3, err := m.Assign(participant("c", "C"))
	require.NoError(t, err)

	// three participants fill one room and open a second
	assert.EqualValues(t, 1, id1)
	assert.EqualValues(t, 1, id2)
	assert.EqualValues(t, 2, id3)
	assert.Equal(t, 2, m.Count())

	first, err := m.Participants(1)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := m.Participants(2)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestRoomIDsAreNeverReused(t *testing.T) {
	m := newTestManager()

	a := participant("a", "A")
	id1, err := m.Assign(a)
	require.NoError(t, err)
	require.NoError(t, m.Remove(id1, a))

	id2, err := m.Assign(participant("b", "B"))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
}

func TestRemoveDeletesEmptyRoom(t *testing.T) {
	m := newTestManager()

	a := participant("a", "A")
	b := participant("b", "B")
	id, err := m.Assign(a)
	require.NoError(t, err)
	_, err = m.Assign(b)
	require.NoError(t, err)

	require.NoError(t, m.Remove(id, a))
	assert.Equal(t, 1, m.Count())

	require.NoError(t, m.Remove(id, b))
	assert.Equal(t, 0, m.Count())

	err = m.Remove(id, a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEveryLookupFailsWithNotFound(t *testing.T) {
	m := newTestManager()
	p := participant("a", "A")

	assert.ErrorIs(t, m.Add(99, p), ErrNotFound)
	assert.ErrorIs(t, m.Remove(99, p), ErrNotFound)
	assert.ErrorIs(t, m.Forward(99, game.Command{}), ErrNotFound)
	assert.ErrorIs(t, m.SetReady(99, "a"), ErrNotFound)
	assert.ErrorIs(t, m.StartGame(99), ErrNotFound)
	assert.ErrorIs(t, m.Delete(99), ErrNotFound)

	_, err := m.IsReady(99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Participants(99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.ClientState(99, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRejectsThirdOccupant(t *testing.T) {
	m := newTestManager()

	id, err := m.Assign(participant("a", "A"))
	require.NoError(t, err)
	require.NoError(t, m.Add(id, participant("b", "B")))

	err = m.Add(id, participant("c", "C"))
	assert.ErrorIs(t, err, ErrRoomFull)

	// re-adding an occupant is rejected too
	err = m.Add(id, participant("a", "A"))
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestReadyAndStartFlow(t *testing.T) {
	m := newTestManager()

	var events []Event
	m.OnEvent(func(ev Event) { events = append(events, ev) })

	a := participant("a", "Alice")
	b := participant("b", "Bob")
	id, err := m.Assign(a)
	require.NoError(t, err)
	_, err = m.Assign(b)
	require.NoError(t, err)

	ready, err := m.IsReady(id)
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, m.SetReady(id, "a"))
	require.NoError(t, m.SetReady(id, "b"))

	ready, err = m.IsReady(id)
	require.NoError(t, err)
	assert.True(t, ready)

	require.NoError(t, m.StartGame(id))

	snap, err := m.ClientState(id, "a")
	require.NoError(t, err)
	require.NotNil(t, snap.Game)
	assert.Equal(t, game.PhaseSelectStat, snap.Game.Phase)

	// commands flow through to the game and events come back enriched
	pk := &domain.Pokemon{Name: "pikachu", Stats: map[string]int{domain.StatSpeed: 90}}
	require.NoError(t, m.Forward(id, game.Command{
		Action:  game.ActionAssignNewPokemon,
		Pokemon: [2]*domain.Pokemon{pk, pk},
	}))
	require.NoError(t, m.Forward(id, game.Command{Action: game.ActionSelectStat, ClientID: "a", Stat: domain.StatSpeed}))
	require.NoError(t, m.Forward(id, game.Command{Action: game.ActionSelectStat, ClientID: "b", Stat: domain.StatSpeed}))

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, game.EventAllSelected, last.Type)
	assert.Equal(t, id, last.RoomID)
}

func TestSnapshotListsOccupantsInOrder(t *testing.T) {
	m := newTestManager()

	a := participant("a", "Alice")
	a.RoomID = 1
	b := participant("b", "Bob")
	b.RoomID = 1

	id, err := m.Assign(a)
	require.NoError(t, err)
	require.NoError(t, m.Add(id, b))
	require.NoError(t, m.SetReady(id, "a"))

	snap, err := m.ClientState(id, "a")
	require.NoError(t, err)
	require.Len(t, snap.Clients, 2)
	assert.Equal(t, "Alice", snap.Clients[0].Client.Name)
	assert.True(t, snap.Clients[0].IsReady)
	assert.Equal(t, "Bob", snap.Clients[1].Client.Name)
	assert.False(t, snap.Clients[1].IsReady)
	assert.Nil(t, snap.Game)
}
