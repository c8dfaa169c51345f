// Package live broadcasts dashboard events to connected websocket
// clients. Clients re-render from the pushed payloads; nothing in
// here blocks the writers for long.
package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gastromanager/dashboard/metrics"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

// Event types
const (
	EventOrderCreate       = "order_create"
	EventOrderUpdate       = "order_update"
	EventOrderDelete       = "order_delete"
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
	EventReservationDelete = "reservation_delete"
	EventSnapshotUpdate    = "snapshot_update"
	EventAlert             = "alert"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Alert carries everything the client needs to toast, play the alert
// tone and raise a system notification with a deep link.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound bool   `json:"sound"`
	Link  string `json:"link"`
	Tag   string `json:"tag"`
}

// client is a connected dashboard session. A nil scope sees every
// restaurant (super_admin); anyone else only gets events for their
// assigned restaurant.
type client struct {
	role  string
	scope *uint
}

// Hub holds every connected dashboard client.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient adds a connection with its role and restaurant
// scope.
func RegisterClient(conn *websocket.Conn, role string, scope *uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{role: role, scope: scope}
	metrics.WSClients.Set(float64(len(hub.clients)))
}

// UnregisterClient drops a connection. Called on disconnect so no
// handler leaks across logins.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
	metrics.WSClients.Set(float64(len(hub.clients)))
}

func BroadcastOrderCreate(order models.Order) {
	broadcastScoped(Message{Event: EventOrderCreate, Data: order}, order.RestaurantID)
}

func BroadcastOrderUpdate(order models.Order) {
	broadcastScoped(Message{Event: EventOrderUpdate, Data: order}, order.RestaurantID)
}

// Delete events carry only an id, clients outside the scope just
// ignore an unknown one.
func BroadcastOrderDelete(orderID uint) {
	broadcast(Message{Event: EventOrderDelete, Data: map[string]uint{"id": orderID}})
}

func BroadcastReservationCreate(reservation models.Reservation) {
	broadcastScoped(Message{Event: EventReservationCreate, Data: reservation}, reservation.RestaurantID)
}

func BroadcastReservationUpdate(reservation models.Reservation) {
	broadcastScoped(Message{Event: EventReservationUpdate, Data: reservation}, reservation.RestaurantID)
}

func BroadcastReservationDelete(reservationID uint) {
	broadcast(Message{Event: EventReservationDelete, Data: map[string]uint{"id": reservationID}})
}

// BroadcastSnapshotUpdate tells clients the snapshot was replaced
// wholesale and they should re-read their views.
func BroadcastSnapshotUpdate() {
	broadcast(Message{Event: EventSnapshotUpdate, Data: nil})
}

func BroadcastAlert(alert Alert) {
	broadcast(Message{Event: EventAlert, Data: alert})
}

// shouldReceive is the scoping rule for entity payloads: unscoped
// clients get everything, scoped clients only their own restaurant's
// rows.
func shouldReceive(clientScope *uint, restaurantID uint) bool {
	return clientScope == nil || *clientScope == restaurantID
}

func broadcast(msg Message) {
	send(msg, func(client) bool { return true })
}

// broadcastScoped delivers an entity payload only to clients allowed
// to see the owning restaurant, so row data (customer contacts
// included) never crosses a restaurant boundary.
func broadcastScoped(msg Message, restaurantID uint) {
	send(msg, func(c client) bool { return shouldReceive(c.scope, restaurantID) })
}

func send(msg Message, allow func(client) bool) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling live message: %v", err)
		return
	}

	for conn, c := range hub.clients {
		if !allow(c) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending live message to %s client: %v", c.role, err)
			continue
		}
	}
}
