package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Manual test client: connects as a rider, streams a drifting location and
// polls the nearby-orders endpoint.

func main() {
	var (
		baseURL = flag.String("base", "http://localhost:8080", "API base URL")
		wsURL   = flag.String("ws", "ws://localhost:8080/ws/rider", "rider websocket URL")
		riderID = flag.Uint("rider", 1, "rider id")
		token   = flag.String("token", "", "rider JWT")
		lat     = flag.Float64("lat", 37.50, "start latitude")
		lon     = flag.Float64("lon", 127.00, "start longitude")
	)
	flag.Parse()

	url := fmt.Sprintf("%s?rider_id=%d&token=%s", *wsURL, *riderID, *token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("websocket dial failed: %v\n", err)
		return
	}
	defer conn.Close()

	go pollNearby(*baseURL, *token)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	latitude, longitude := *lat, *lon
	for range ticker.C {
		update := map[string]interface{}{
			"rider_id":  *riderID,
			"latitude":  latitude,
			"longitude": longitude,
		}
		if err := conn.WriteJSON(update); err != nil {
			fmt.Printf("location send failed: %v\n", err)
			return
		}
		fmt.Printf("location sent: %f, %f\n", latitude, longitude)
		latitude += 0.001
		longitude += 0.001
	}
}

func pollNearby(baseURL, token string) {
	client := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/rider/orders/nearby", nil)
		if err != nil {
			continue
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("nearby poll failed: %v\n", err)
			continue
		}

		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		fmt.Printf("nearby orders: %v\n", body["orders"])
	}
}
