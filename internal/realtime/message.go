package realtime

type SSEEvent string

const (
	SSEEventProgressUpdated     SSEEvent = "ProgressUpdated"
	SSEEventProgressReset       SSEEvent = "ProgressReset"
	SSEEventOnboardingCompleted SSEEvent = "OnboardingCompleted"
)

// SSEMessage is routed to every client subscribed to Channel. User streams
// subscribe to their own user id.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
