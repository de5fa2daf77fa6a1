package analysis

import "context"

const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ContentPart is one piece of the user message.
type ContentPart struct {
	Type     string
	Text     string
	ImageURL string
}

// ChatRequest is a single system+user exchange asking for a JSON object answer.
type ChatRequest struct {
	Kind   Kind
	System string
	User   []ContentPart
}

// Provider sends a ChatRequest to a model and returns the message content.
// Implementations map upstream 429 and 402 to RATE_LIMITED and PAYMENT_REQUIRED
// platform errors.
type Provider interface {
	Name() string
	Configured() bool
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
