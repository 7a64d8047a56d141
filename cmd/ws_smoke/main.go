package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Manual smoke driver: runs two clients through name entry, ready-up and
// one stat selection against a locally running server.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	dialer := websocket.DefaultDialer

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	connA, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?uuid=smoke-a", port), nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?uuid=smoke-b", port), nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	send := func(conn *websocket.Conn, name, frame string) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			log.Fatalf("write %s: %v", name, err)
		}
	}

	send(connA, "A", `{"type":"nameEnter","payload":"SmokeA"}`)
	send(connB, "B", `{"type":"nameEnter","payload":"SmokeB"}`)
	send(connA, "A", `{"type":"ready"}`)
	send(connB, "B", `{"type":"ready"}`)

	// wait for an update carrying an assigned game
	waitForGame := func(conn *websocket.Conn, name string) {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				continue
			}
			var obj map[string]any
			_ = json.Unmarshal(msg, &obj)
			if obj["type"] == "update" {
				if payload, ok := obj["payload"].(map[string]any); ok && payload["game"] != nil {
					log.Printf("%s: game assigned", name)
					return
				}
			}
		}
		log.Fatalf("%s: no game within deadline", name)
	}

	waitForGame(connA, "A")
	waitForGame(connB, "B")

	send(connA, "A", `{"type":"gameCommand","payload":{"actionType":"selectStat","payload":"speed"}}`)
	send(connB, "B", `{"type":"gameCommand","payload":{"actionType":"selectStat","payload":"attack"}}`)

	readNext := func(conn *websocket.Conn, name string) {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("%s read error: %v", name, err)
			return
		}
		log.Printf("%s got: %s", name, string(msg))
	}

	readNext(connA, "A")
	readNext(connB, "B")

	log.Println("smoke run finished")
}
