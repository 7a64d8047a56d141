package integration

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pokeduel/internal/config"
	httpserver "pokeduel/internal/http"
	"pokeduel/internal/orchestrator"
	"pokeduel/internal/pokeapi"
	"pokeduel/internal/ws"
)

const fixtureJSON = `{
	"id": 25,
	"name": "pikachu",
	"weight": 60,
	"height": 4,
	"types": [{"type": {"name": "electric"}}],
	"sprites": {
		"back_default": "b.png",
		"other": {"official-artwork": {"front_default": "f.png"}}
	},
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 55, "stat": {"name": "attack"}},
		{"base_stat": 40, "stat": {"name": "defense"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	]
}`

type hubStats struct {
	coord *orchestrator.Coordinator
	gw    *ws.Gateway
}

func (s hubStats) RoomCount() int   { return s.coord.RoomCount() }
func (s hubStats) ClientCount() int { return s.gw.ClientCount() }

func TestE2E_WS_Match(t *testing.T) {
	// fake PokeAPI serving one fixed pokemon; both players get identical
	// subjects, so every round is a deterministic tie
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixtureJSON))
	}))
	defer api.Close()

	cfg := &config.Config{
		PokeAPIURL:     api.URL,
		PokemonMaxID:   600,
		BattleDuration: 50 * time.Millisecond,
		WinPoints:      3,
		WSRateLimit:    100,
		WSRateWindow:   time.Minute,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := pokeapi.NewClient(cfg.PokeAPIURL, cfg.PokemonMaxID, log)
	coord := orchestrator.NewCoordinator(client, cfg.WinPoints, cfg.BattleDuration, log)
	gw := ws.NewGateway(coord, log)
	coord.SetPusher(gw)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	httpserver.RegisterRoutes(r, gw, hubStats{coord: coord, gw: gw}, cfg, "test")
	ts := httptest.NewServer(r)
	defer ts.Close()

	dial := func(uuid string) *websocket.Conn {
		url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?uuid=" + uuid
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial %s: %v", uuid, err)
		}
		return conn
	}

	connA := dial("uuid-a")
	defer connA.Close()
	connB := dial("uuid-b")
	defer connB.Close()

	// single reader goroutine per connection to avoid concurrent ReadMessage calls
	startReader := func(conn *websocket.Conn) chan map[string]any {
		out := make(chan map[string]any, 32)
		go func() {
			defer close(out)
			for {
				_, raw, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var obj map[string]any
				if json.Unmarshal(raw, &obj) == nil {
					out <- obj
				}
			}
		}()
		return out
	}

	chA := startReader(connA)
	chB := startReader(connB)

	// waitFor drains updates until pred accepts one
	waitFor := func(name string, ch chan map[string]any, pred func(map[string]any) bool) map[string]any {
		deadline := time.After(5 * time.Second)
		for {
			select {
			case obj, ok := <-ch:
				if !ok {
					t.Fatalf("%s: connection closed while waiting", name)
				}
				if pred(obj) {
					return obj
				}
			case <-deadline:
				t.Fatalf("%s: timed out waiting for state", name)
			}
		}
	}

	isUpdate := func(obj map[string]any) bool { return obj["type"] == "update" }
	gameOf := func(obj map[string]any) map[string]any {
		payload, _ := obj["payload"].(map[string]any)
		if payload == nil {
			return nil
		}
		game, _ := payload["game"].(map[string]any)
		return game
	}

	send := func(conn *websocket.Conn, frame string) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// both enter names; each must see a room with two occupants
	send(connA, `{"type":"nameEnter","payload":"Alice"}`)
	send(connB, `{"type":"nameEnter","payload":"Bob"}`)

	waitFor("A", chA, func(obj map[string]any) bool {
		if !isUpdate(obj) {
			return false
		}
		payload, _ := obj["payload"].(map[string]any)
		records, _ := payload["clientRecords"].([]any)
		return len(records) == 2
	})

	// both ready; the match starts once subjects are fetched
	send(connA, `{"type":"ready"}`)
	send(connB, `{"type":"ready"}`)

	started := waitFor("A", chA, func(obj map[string]any) bool {
		g := gameOf(obj)
		if g == nil {
			return false
		}
		you, _ := g["you"].(map[string]any)
		return you != nil && you["pokemon"] != nil
	})
	g := gameOf(started)
	if g["phase"] != "selectStat" {
		t.Fatalf("expected selectStat phase, got %v", g["phase"])
	}
	waitFor("B", chB, func(obj map[string]any) bool {
		gb := gameOf(obj)
		if gb == nil {
			return false
		}
		you, _ := gb["you"].(map[string]any)
		return you != nil && you["pokemon"] != nil
	})

	// one full round: picks, reveal, and a tie that locks both stat kinds
	send(connA, `{"type":"gameCommand","payload":{"actionType":"selectStat","payload":"speed"}}`)
	send(connB, `{"type":"gameCommand","payload":{"actionType":"selectStat","payload":"attack"}}`)

	reveal := waitFor("A", chA, func(obj map[string]any) bool {
		gb := gameOf(obj)
		return gb != nil && gb["phase"] == "battle"
	})
	you, _ := gameOf(reveal)["you"].(map[string]any)
	if you["challengeStat"] == nil || you["challengedStat"] == nil {
		t.Fatalf("battle reveal missing challenge pairing: %v", you)
	}

	resolved := waitFor("A", chA, func(obj map[string]any) bool {
		gb := gameOf(obj)
		if gb == nil || gb["phase"] != "selectStat" {
			return false
		}
		locked, _ := gb["lockedStats"].([]any)
		return len(locked) == 2
	})
	locked, _ := gameOf(resolved)["lockedStats"].([]any)
	got := map[any]bool{locked[0]: true, locked[1]: true}
	if !got["speed"] || !got["attack"] {
		t.Fatalf("expected speed and attack locked, got %v", locked)
	}
	waitFor("B", chB, func(obj map[string]any) bool {
		gb := gameOf(obj)
		if gb == nil {
			return false
		}
		lockedB, _ := gb["lockedStats"].([]any)
		return len(lockedB) == 2
	})
}
