package game

// Broadcaster fans a server event out to every member of a game's room. The
// actor calls it synchronously from its command loop, so room delivery order
// matches emission order.
type Broadcaster interface {
	BroadcastToGame(gameID, eventType string, data any)
}

// NopBroadcaster drops all events. Used in tests and batch tooling.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastToGame(string, string, any) {}
