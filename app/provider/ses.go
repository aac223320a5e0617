package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESProvider sends raw mail via AWS SES, setting the sender account's
// address as the from address. The account's app password is unused here;
// SES authenticates with the ambient AWS credentials, and every sender
// address must be a verified identity.
type SESProvider struct {
	client *sesv2.Client
}

// NewSESProvider builds a provider that sends email via AWS SES.
func NewSESProvider(cfg aws.Config) *SESProvider {
	return &SESProvider{client: sesv2.NewFromConfig(cfg)}
}

// SendRaw sends a raw MIME email via SES.
func (p *SESProvider) SendRaw(ctx context.Context, from Identity, to []string, raw []byte) error {
	if from.Email == "" {
		return fmt.Errorf("sender email is required")
	}
	if len(to) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if len(raw) == 0 {
		return fmt.Errorf("raw content is required")
	}

	_, err := p.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from.Email),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send raw email: %w", err)
	}

	return nil
}
