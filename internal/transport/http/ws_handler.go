package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/domain"
)

// scoreFeedHandler upgrades authenticated requests to websockets and streams
// score updates for one subject until the client goes away.
type scoreFeedHandler struct {
	feed     *app.ScoreFeed
	upgrader websocket.Upgrader
}

func newScoreFeedHandler(feed *app.ScoreFeed) *scoreFeedHandler {
	return &scoreFeedHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type scoreEvent struct {
	Type   string             `json:"type"`
	Result domain.ScoreRecord `json:"result"`
}

func (h *scoreFeedHandler) serve(c echo.Context) error {
	subjectID := c.Param("subject")
	if subjectID == "" {
		return domain.NewValidationError("subject", "subject is required")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe(subjectID)
	defer cancel()

	// Reader goroutine notices the peer closing; nothing inbound is expected.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case record, ok := <-updates:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(scoreEvent{Type: "score", Result: record}); err != nil {
				log.Printf("ws write error: %v", err)
				return nil
			}
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
