package publishers

import "context"

// Publisher delivers a digest event to a downstream sink (SMTP, SQS, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
