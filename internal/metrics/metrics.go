package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_connections_total",
			Help: "Total accepted websocket connections",
		},
	)
	RoomsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rooms_active",
			Help: "Rooms currently open",
		},
	)
	RoomsCrashed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_crashed_total",
			Help: "Rooms torn down through the stale-reference crash path",
		},
	)
	MatchesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_finished_total",
			Help: "Matches that reached the finished phase",
		},
	)
	PokeAPIErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeapi_errors_total",
			Help: "Failed PokeAPI fetches",
		},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(RoomsActive)
	prometheus.MustRegister(RoomsCrashed)
	prometheus.MustRegister(MatchesFinished)
	prometheus.MustRegister(PokeAPIErrors)
}
