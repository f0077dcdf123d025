package server

import (
	"math/rand/v2"
	"sync"

	"cuatrola-game/internal/bot"
	"cuatrola-game/internal/game"
	"cuatrola-game/internal/protocol"
	"cuatrola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages active WebSocket connections and gives each client its own table
// against three bots.
type Hub struct {
	clients        map[*Client]bool
	tables         map[*Client]*game.Table
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	tableMu        sync.RWMutex
	rng            *rand.Rand
	recorder       game.ResultRecorder
	cuatrolaTarget int
}

// NewHub creates a new Hub instance. recorder may be nil.
func NewHub(recorder game.ResultRecorder, cuatrolaTarget int) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		tables:         make(map[*Client]*game.Table),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		recorder:       recorder,
		cuatrolaTarget: cuatrolaTarget,
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			_, clientExists := h.clients[client]
			if clientExists {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()

			h.tableMu.Lock()
			if table, ok := h.tables[client]; ok {
				delete(h.tables, client)
				log.Printf("Table %s closed after client %s left.", table.ID, client.ID)
			}
			h.tableMu.Unlock()

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeNewGame:
		h.handleNewGame(client, msg)
	case protocol.TypeBid, protocol.TypePlayCard, protocol.TypeDeclareCanto, protocol.TypeDeclineCanto,
		protocol.TypeNextHand, protocol.TypeRestartGame:
		h.handleGameAction(client, msg)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendMessageToClient(client.ID, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleNewGame seats the client at bottom of a fresh table, replacing any table it had.
func (h *Hub) handleNewGame(client *Client, msg protocol.Message) {
	var payload protocol.NewGamePayload
	if err := msg.Decode(&payload); err != nil {
		log.Printf("Error unmarshalling new_game payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid new_game message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to start a game with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	variant := game.Variant(payload.Variant)
	if variant == "" {
		variant = game.Cuatrola
	}
	if !variant.Valid() {
		h.sendErrorToClient(client, "Unknown game variant.")
		return
	}
	if payload.PointsGoal < 0 {
		h.sendErrorToClient(client, "Invalid points goal.")
		return
	}
	target := payload.PointsGoal
	if target == 0 && variant == game.Cuatrola {
		target = h.cuatrolaTarget
	}

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientMu.Unlock()

	names := [shared.NumSeats]string{payload.Name}
	for i, n := range bot.Names(h.rng, shared.NumSeats-1) {
		names[i+1] = n
	}
	table, err := game.NewTable(game.TableOptions{
		Variant:  variant,
		Target:   target,
		HumanID:  client.ID,
		Names:    names,
		Deciders: [shared.NumSeats]game.Decider{nil, bot.Basic{}, bot.Basic{}, bot.Basic{}},
		Recorder: h.recorder,
		Rand:     rand.New(rand.NewPCG(h.rng.Uint64(), h.rng.Uint64())),
	})
	if err != nil {
		log.Printf("Error creating table for client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Failed to start game.")
		return
	}

	h.tableMu.Lock()
	if old, ok := h.tables[client]; ok {
		log.Printf("Client %s left table %s for a new one.", client.ID, old.ID)
	}
	h.tables[client] = table
	h.tableMu.Unlock()

	log.Printf("Client %s (%s) started %s table %s against %v", client.ID, client.Name, variant, table.ID, names[1:])
	if err := table.Start(h.sendMessageToClient); err != nil {
		log.Printf("Error starting table %s: %v", table.ID, err)
	}
}

// handleGameAction forwards game commands to the client's table.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.tableMu.RLock()
	table, ok := h.tables[client]
	h.tableMu.RUnlock()

	if !ok {
		log.Printf("Received '%s' from client %s without a table.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in an active game.")
		return
	}

	log.Debugf("Forwarding '%s' from client %s to table %s", msg.Type, client.ID, table.ID)
	table.HandlePlayerAction(client.ID, msg)
}

// sendMessageToClient allows the game logic to send messages back via the hub/client.
// This is passed as a callback to the table.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}

	// Non-blocking so a slow client never stalls the hub or a table.
	select {
	case targetClient.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// Table returns the table the client with clientID is playing at.
func (h *Hub) Table(clientID string) (*game.Table, bool) {
	h.tableMu.RLock()
	defer h.tableMu.RUnlock()
	for client, table := range h.tables {
		if client.ID == clientID {
			return table, true
		}
	}
	return nil, false
}
