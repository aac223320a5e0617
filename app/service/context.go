package service

import "context"

type eventIDKey struct{}

// WithEventID stores the queue message id in the context for log
// correlation across the dispatch.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDKey{}, eventID)
}

// EventIDFromContext extracts the queue message id from the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(eventIDKey{})
	if value == nil {
		return "", false
	}
	eventID, ok := value.(string)
	return eventID, ok
}
