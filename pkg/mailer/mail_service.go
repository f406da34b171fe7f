package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ServiceInterface defines the contract for sending plain-text mail.
type ServiceInterface interface {
	Send(ctx context.Context, to, subject, body string) error
}

// sendEmailAPI is the part of the SES v2 client the mailer uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESService sends mail through Amazon SES v2.
type SESService struct {
	client sendEmailAPI
	sender string
}

// NewSESService loads the default AWS credential chain for region.
func NewSESService(ctx context.Context, region, sender string) (*SESService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("mailer.NewSESService: %w", err)
	}
	return &SESService{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

func (s *SESService) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("mailer.Send: empty recipient")
	}
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("mailer.Send: %w", err)
	}
	return nil
}
