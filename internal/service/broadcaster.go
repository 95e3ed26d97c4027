package service

// Broadcaster pushes session events to connected renderers (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// WebSocket message types
const (
	MsgVisibilityUpdate = "visibility_update"
	MsgResultReady      = "result_ready"
)

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToSession(string, string, interface{}) {}
func (noopBroadcaster) DisconnectSession(string)                       {}
