package provider

import "context"

// Identity is the sender the transport authenticates as. AppPassword is an
// application-specific credential, passed through opaquely.
type Identity struct {
	Email       string
	AppPassword string
}

type EmailProvider interface {
	SendRaw(ctx context.Context, from Identity, to []string, raw []byte) error
}
