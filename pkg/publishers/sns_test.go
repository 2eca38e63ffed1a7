package publishers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type fakeSNSClient struct {
	inputs []*sns.PublishInput
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{}, nil
}

func TestSNSPublisherPublishes(t *testing.T) {
	fake := &fakeSNSClient{}
	pub := &SNSPublisher{
		id:       "t1",
		topicARN: "arn:aws:sns:us-east-1:123:digests",
		client:   fake,
		log:      ensureLogger(nil),
	}

	err := pub.Publish(context.Background(), Event{Subject: "Blog Digest 2026-01-02", PostCount: 5})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("expected one Publish call, got %d", len(fake.inputs))
	}
	in := fake.inputs[0]
	if in.TopicArn == nil || *in.TopicArn != pub.topicARN {
		t.Fatalf("wrong topic arn: %v", in.TopicArn)
	}
	if in.Subject == nil || *in.Subject != "Blog Digest 2026-01-02" {
		t.Fatalf("wrong subject: %v", in.Subject)
	}
	attr, ok := in.MessageAttributes["post_count"]
	if !ok || attr.StringValue == nil || *attr.StringValue != "5" {
		t.Fatalf("missing post_count attribute: %#v", in.MessageAttributes)
	}
}
