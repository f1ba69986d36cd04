// Package push delivers reminders as Web Push notifications to a single
// browser subscription registered with `habitual push subscribe`.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	// ErrExpired is returned when the push subscription is no longer valid (410 Gone).
	ErrExpired = errors.New("push subscription expired")
	// ErrNoSubscription is returned when no browser has subscribed yet.
	ErrNoSubscription = errors.New("no push subscription registered, run 'habitual push subscribe'")
	// ErrNoKeys is returned when VAPID keys have not been generated.
	ErrNoKeys = errors.New("VAPID keys not configured, run 'habitual push keygen'")
)

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
	// Silent asks the service worker not to play a sound.
	Silent bool `json:"silent,omitempty"`
}

// Service sends Web Push notifications. The subscription and the VAPID
// public key live in the key-value store; the private key lives in the OS
// keyring.
type Service struct {
	kv     storage.KV
	client *http.Client
}

func NewService(kv storage.KV) *Service {
	return &Service{
		kv:     kv,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers the alarm. An expired subscription is removed.
func (s *Service) Send(ctx context.Context, a models.Alarm) error {
	sub, err := s.subscription(ctx)
	if err != nil {
		return err
	}
	publicKey, privateKey, err := s.keys(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(Payload{
		Title:  a.Title,
		Body:   a.Body,
		Tag:    "reminder-" + a.ID,
		Silent: !a.Sound,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, sub, &webpush.Options{
		HTTPClient:      s.client,
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subscriber:      constants.PushSubscriber,
		TTL:             constants.PushTTLSeconds,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		if err := s.kv.RemoveItem(ctx, constants.KeyPushSubscription); err != nil {
			logger.Warn("failed to remove expired push subscription", "error", err)
		}
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}

// Status is granted once keys exist and a browser has subscribed.
func (s *Service) Status(ctx context.Context) (reminder.Status, error) {
	if _, err := s.subscription(ctx); err != nil {
		if errors.Is(err, ErrNoSubscription) {
			return reminder.StatusUndetermined, nil
		}
		return reminder.StatusUndetermined, err
	}
	if _, _, err := s.keys(ctx); err != nil {
		return reminder.StatusUndetermined, nil
	}
	return reminder.StatusGranted, nil
}

// Request cannot prompt a browser from the terminal, so it reports what is
// missing instead.
func (s *Service) Request(ctx context.Context) (reminder.Status, error) {
	if _, _, err := s.keys(ctx); err != nil {
		return reminder.StatusDenied, err
	}
	if _, err := s.subscription(ctx); err != nil {
		return reminder.StatusDenied, err
	}
	return reminder.StatusGranted, nil
}

// Subscribe stores a browser PushSubscription JSON document.
func (s *Service) Subscribe(ctx context.Context, raw []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("invalid subscription JSON: %w", err)
	}
	if !strings.HasPrefix(sub.Endpoint, "https://") && !strings.HasPrefix(sub.Endpoint, "http://") {
		return fmt.Errorf("invalid subscription endpoint %q", sub.Endpoint)
	}
	if sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		return errors.New("subscription is missing p256dh or auth keys")
	}
	return storage.SetJSON(ctx, s.kv, constants.KeyPushSubscription, sub)
}

func (s *Service) Unsubscribe(ctx context.Context) error {
	return s.kv.RemoveItem(ctx, constants.KeyPushSubscription)
}

// PublicKey returns the VAPID public key browsers subscribe with.
func (s *Service) PublicKey(ctx context.Context) (string, error) {
	key, found, err := s.kv.GetItem(ctx, constants.KeyVAPIDPublicKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoKeys
	}
	return key, nil
}

// GenerateKeys creates a VAPID key pair, storing the private half in the
// keyring and the public half in the store.
func (s *Service) GenerateKeys(ctx context.Context) (string, error) {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", fmt.Errorf("generate VAPID keys: %w", err)
	}
	if err := keyring.Set(keyring.VAPIDPrivateKey, privateKey); err != nil {
		return "", err
	}
	if err := s.kv.SetItem(ctx, constants.KeyVAPIDPublicKey, publicKey); err != nil {
		return "", fmt.Errorf("failed to save VAPID public key: %w", err)
	}
	return publicKey, nil
}

func (s *Service) subscription(ctx context.Context) (*webpush.Subscription, error) {
	var sub webpush.Subscription
	found, err := storage.GetJSON(ctx, s.kv, constants.KeyPushSubscription, &sub)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSubscription
	}
	return &sub, nil
}

func (s *Service) keys(ctx context.Context) (string, string, error) {
	publicKey, err := s.PublicKey(ctx)
	if err != nil {
		return "", "", err
	}
	privateKey, err := keyring.Get(keyring.VAPIDPrivateKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", ErrNoKeys
		}
		return "", "", err
	}
	return publicKey, privateKey, nil
}
