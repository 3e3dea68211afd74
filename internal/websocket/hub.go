package websocket

import "github.com/rs/zerolog/log"

// event is a message targeted at one user's connections.
type event struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients and routes task events to the
// connections of the owning user. All state is owned by the Run loop.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Targeted events from the task service.
	events chan event

	// A map of user IDs to the set of that user's connections.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		events:        make(chan event, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

// BroadcastTo queues a message for every connection of a user. Delivery
// is best effort; if the hub's queue is full the event is dropped.
func (h *Hub) BroadcastTo(userID string, message []byte) {
	select {
	case h.events <- event{userID: userID, message: message}:
	default:
		log.Warn().Str("user_id", userID).Msg("Feed queue full, dropping event")
	}
}

// deliver fans an event out to the user's connections. Clients with a
// full send buffer are dropped.
func (h *Hub) deliver(ev event) {
	for client := range h.subscriptions[ev.userID] {
		select {
		case client.Send <- ev.message:
		default:
			close(client.Send)
			delete(h.clients, client)
			delete(h.subscriptions[ev.userID], client)
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
