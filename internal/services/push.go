package services

import (
	"fmt"

	appconfig "marktx-backend/internal/config"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushSender delivers APNs pushes. With no certificate configured it is a
// no-op, so the notification path works without push infrastructure.
type PushSender struct {
	client *apns2.Client
	topic  string
}

// NewPushSender creates a push sender from configuration
func NewPushSender(cfg appconfig.APNSConfig) (*PushSender, error) {
	if cfg.CertPath == "" {
		return &PushSender{}, nil
	}

	cert, err := certificate.FromPemFile(cfg.CertPath, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushSender{
		client: client,
		topic:  cfg.Topic,
	}, nil
}

// Send pushes an alert to a device token
func (s *PushSender) Send(deviceToken, alert string) error {
	if s.client == nil {
		return nil
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     payload.NewPayload().Alert(alert),
	}

	res, err := s.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
