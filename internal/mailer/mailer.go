package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// EmailClient is the part of the SES v2 client we use.
type EmailClient interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends mail through Amazon SES.
type SESMailer struct {
	client EmailClient
	from   string
}

func NewSESMailer(client EmailClient, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

// LoadSESClient initializes the SES client from the default AWS credential chain.
func LoadSESClient(ctx context.Context, region string) (*sesv2.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return sesv2.NewFromConfig(cfg), nil
}

func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail recipient is empty")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// Noop drops every message. Used when mail is disabled.
type Noop struct{}

func (Noop) Send(ctx context.Context, msg Message) error {
	zerolog.Ctx(ctx).Debug().Str("to", msg.To).Msg("mail disabled, message dropped")
	return nil
}

// ModerationMessage tells an author about a moderation decision.
func ModerationMessage(to, projectName, status string) Message {
	var subject, text string
	switch status {
	case "approved":
		subject = "Your project has been approved"
		text = fmt.Sprintf("Good news: %q is now visible on the ILEWA map.", projectName)
	default:
		subject = "Your project was not approved"
		text = fmt.Sprintf("%q was reviewed and will not be published on the ILEWA map.", projectName)
	}
	return Message{To: to, Subject: subject, Text: text}
}
