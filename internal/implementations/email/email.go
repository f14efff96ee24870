package email

import (
	"accounts/internal/core/domain/notifier"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const CHARSET = "UTF-8"

type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailSender struct {
	ses SESClient
	// This address must be verified with Amazon SES.
	sender string
}

func NewEmailSender(awsConfig aws.Config, sender string) *EmailSender {
	return NewEmailSenderWithClient(ses.NewFromConfig(awsConfig), sender)
}

func NewEmailSenderWithClient(client SESClient, sender string) *EmailSender {
	if client == nil {
		panic("client must not be nil")
	}
	return &EmailSender{ses: client, sender: sender}
}

func (s *EmailSender) Send(ctx context.Context, message notifier.Message) error {
	if message.To == "" {
		return errors.New("email recipient is not defined")
	}
	source := message.From
	if source == "" {
		source = s.sender
	}
	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(source),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{message.To},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(message.Subject), Charset: aws.String(CHARSET)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(message.HTMLBody), Charset: aws.String(CHARSET)},
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", notifier.ErrDeliveryFailed, err)
	}
	return nil
}
