// Package sqs sends delivery messages to an SQS FIFO queue
package sqs

import (
	"context"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/delivery/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Config addresses the queue. QueueURL defaults to EndpointURL
type Config struct {
	EndpointURL     string
	QueueURL        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// API is the slice of the SQS client the sender uses
type API interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Sender implements domain.Sender
type Sender struct {
	api      API
	queueURL string
}

var _ domain.Sender = (*Sender)(nil)

// New builds an SQS client from static credentials
func New(ctx context.Context, cfg Config) (*Sender, error) {
	if cfg.QueueURL == "" {
		cfg.QueueURL = cfg.EndpointURL
	}
	if cfg.QueueURL == "" {
		return nil, perr.InvalidArgf("sqs: queue url is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "sqs: load aws config")
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	})
	return NewWithAPI(client, cfg.QueueURL), nil
}

// NewWithAPI wraps an existing client
func NewWithAPI(api API, queueURL string) *Sender {
	return &Sender{api: api, queueURL: queueURL}
}

// Send implements domain.Sender
func (s *Sender) Send(ctx context.Context, m domain.Message) (domain.Ack, error) {
	out, err := s.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:               aws.String(s.queueURL),
		MessageBody:            aws.String(string(m.Body)),
		MessageGroupId:         aws.String(m.GroupID),
		MessageDeduplicationId: aws.String(m.DeduplicationID),
	})
	if err != nil {
		return domain.Ack{}, perr.Wrapf(err, perr.ErrorCodeDelivery, "sqs send %s", m.DeduplicationID)
	}
	return domain.Ack{
		MessageID:       aws.ToString(out.MessageId),
		DeduplicationID: m.DeduplicationID,
		Sequence:        aws.ToString(out.SequenceNumber),
	}, nil
}
