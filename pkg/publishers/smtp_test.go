package publishers

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTPPublisherBuildsMessage(t *testing.T) {
	t.Setenv("SMTP_PASS", "hunter2")

	pub, err := NewSMTPPublisher(context.Background(), PublisherConfig{
		ID:   "mail1",
		Type: TypeSMTP,
		SMTP: &SMTPPublisherConfig{
			Host:        "smtp.example.com",
			Port:        587,
			Username:    "digest@example.com",
			PasswordEnv: "SMTP_PASS",
			From:        "digest@example.com",
			To:          []string{"reader@example.com", "other@example.com"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("NewSMTPPublisher: %v", err)
	}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	p := pub.(*SMTPPublisher)
	p.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	evt := Event{Subject: "Blog Digest 2026-01-02", HTML: "<html><body>hi</body></html>"}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("wrong addr: %s", gotAddr)
	}
	if gotFrom != "digest@example.com" || len(gotTo) != 2 {
		t.Fatalf("wrong envelope: from=%s to=%v", gotFrom, gotTo)
	}
	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: Blog Digest 2026-01-02\r\n") {
		t.Fatalf("missing subject header:\n%s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Fatalf("missing html content type:\n%s", msg)
	}
	if !strings.HasSuffix(msg, evt.HTML) {
		t.Fatalf("body not at end of message:\n%s", msg)
	}
}

func TestSMTPPublisherMissingPasswordEnv(t *testing.T) {
	_, err := NewSMTPPublisher(context.Background(), PublisherConfig{
		ID:   "mail1",
		Type: TypeSMTP,
		SMTP: &SMTPPublisherConfig{
			Host:        "smtp.example.com",
			From:        "a@example.com",
			To:          []string{"b@example.com"},
			PasswordEnv: "DEFINITELY_UNSET_VAR_12345",
		},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unset password env var")
	}
}
