package sqs

import (
	"context"
	"errors"
	"testing"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/delivery/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeAPI struct {
	in  *sqs.SendMessageInput
	err error
}

func (f *fakeAPI) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("mid-1"), SequenceNumber: aws.String("18877781119960559616")}, nil
}

func TestSend_MapsInputAndAck(t *testing.T) {
	api := &fakeAPI{}
	s := NewWithAPI(api, "https://sqs.local/queue.fifo")
	ack, err := s.Send(context.Background(), domain.Message{Body: []byte(`{"a":1}`), DeduplicationID: "d1", GroupID: "g1"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if aws.ToString(api.in.QueueUrl) != "https://sqs.local/queue.fifo" ||
		aws.ToString(api.in.MessageBody) != `{"a":1}` ||
		aws.ToString(api.in.MessageGroupId) != "g1" ||
		aws.ToString(api.in.MessageDeduplicationId) != "d1" {
		t.Fatalf("input = %+v", api.in)
	}
	if ack.MessageID != "mid-1" || ack.DeduplicationID != "d1" || ack.Sequence != "18877781119960559616" {
		t.Fatalf("ack = %+v", ack)
	}
}

func TestSend_Error(t *testing.T) {
	s := NewWithAPI(&fakeAPI{err: errors.New("503")}, "q")
	_, err := s.Send(context.Background(), domain.Message{DeduplicationID: "d"})
	if !perr.IsCode(err, perr.ErrorCodeDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestNew_RequiresQueue(t *testing.T) {
	if _, err := New(context.Background(), Config{Region: "us-east-1"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestNew_QueueDefaultsToEndpoint(t *testing.T) {
	s, err := New(context.Background(), Config{
		EndpointURL:     "http://localhost:4566/000000000000/crowd.fifo",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.queueURL != "http://localhost:4566/000000000000/crowd.fifo" {
		t.Fatalf("queue = %q", s.queueURL)
	}
}
