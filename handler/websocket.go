package handler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"quicksports/database"
	"quicksports/helper"

	"github.com/gofiber/contrib/websocket"
)

var (
	wsClients = make(map[uint]map[*websocket.Conn]bool)
	wsMu      sync.Mutex
)

// VenueAvailabilitySocket streams court availability for one venue over
// websocket. Clients get a snapshot on connect, then every change published
// on the venue's redis channel.
func VenueAvailabilitySocket(c *websocket.Conn) {
	venueIdStr := c.Params("id")
	id64, _ := strconv.ParseUint(venueIdStr, 10, 64)
	venueId := uint(id64)

	defer func() {
		wsMu.Lock()
		if wsClients[venueId] != nil {
			delete(wsClients[venueId], c)
		}
		wsMu.Unlock()
		c.Close()
	}()

	wsMu.Lock()
	if wsClients[venueId] == nil {
		wsClients[venueId] = make(map[*websocket.Conn]bool)
	}
	wsClients[venueId][c] = true
	wsMu.Unlock()

	// initial snapshot for the requested date (?date=, default today)
	date := time.Now()
	if d := c.Query("date"); d != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", d, time.Local); err == nil {
			date = parsed
		}
	}
	if availability, err := helper.FetchVenueAvailability(venueId, date); err == nil {
		c.WriteJSON(availability)
	}

	if database.Redis == nil {
		return
	}

	pubsub := database.Redis.Subscribe(
		context.Background(),
		fmt.Sprintf("venue:%d", venueId),
	)
	defer pubsub.Close()

	channel := pubsub.Channel()

	for msg := range channel {
		payload := []byte(msg.Payload)

		wsMu.Lock()
		for conn := range wsClients[venueId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(wsClients[venueId], conn)
			}
		}
		wsMu.Unlock()
	}
}
