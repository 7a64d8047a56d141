package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades an HTTP request into a duel connection. Clients must
// present their persistent uuid as a query parameter; there is no further
// authentication.
func HandleWS(gw *Gateway, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		uuid := c.Query("uuid")
		if uuid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "uuid required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			gw.log.Warn("ws upgrade failed", "err", err)
			return
		}

		gw.HandleConn(conn, uuid)
	}
}
