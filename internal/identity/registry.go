package identity

import (
	"log/slog"
	"sync"
)

// Participant is a logical player identity keyed by a durable
// client-supplied UUID. The connection handle is transient and replaced on
// reconnect; Conn == 0 means no live connection.
type Participant struct {
	UUID   string
	Name   string
	RoomID int64
	Conn   int64
}

// Registry maps transient connection handles and persistent UUIDs onto
// participant records. Records survive disconnects; only the conn-keyed
// index entry is dropped so the same UUID can rebind later.
type Registry struct {
	mu     sync.Mutex
	byConn map[int64]*Participant
	byUUID map[string]*Participant
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		byConn: make(map[int64]*Participant),
		byUUID: make(map[string]*Participant),
		log:    log,
	}
}

// Register binds conn to the participant identified by uuid, creating the
// record on first contact. On reconnect the stale conn mapping is detached
// before the new one is installed, so a record never owns two handles.
func (r *Registry) Register(conn int64, uuid string) *Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUUID[uuid]
	if !ok {
		p = &Participant{UUID: uuid}
		r.byUUID[uuid] = p
		r.log.Info("new client registered", "uuid", uuid)
	} else {
		if p.Conn != 0 {
			delete(r.byConn, p.Conn)
		}
		r.log.Info("client reconnected", "uuid", uuid)
	}

	p.Conn = conn
	r.byConn[conn] = p
	return p
}

// ByConn looks up the participant currently bound to a connection handle.
func (r *Registry) ByConn(conn int64) *Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byConn[conn]
}

// ByUUID looks up a participant by persistent identifier.
func (r *Registry) ByUUID(uuid string) *Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUUID[uuid]
}

// ReleaseConn drops the conn-keyed index entry on disconnect. The
// persistent record stays for reconnection.
func (r *Registry) ReleaseConn(conn int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byConn[conn]
	if !ok {
		return
	}
	delete(r.byConn, conn)
	if p.Conn == conn {
		p.Conn = 0
	}
}

// ResetSession clears a participant's session state, used on room teardown.
func (r *Registry) ResetSession(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Name = ""
	p.RoomID = 0
}

// InRoom returns every participant whose record still references roomID.
func (r *Registry) InRoom(roomID int64) []*Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Participant
	for _, p := range r.byUUID {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out
}
