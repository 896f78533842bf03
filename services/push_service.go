package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// PushSender delivers a push notification to a single device token
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]interface{}) error
}

// ExpoPushClient sends notifications through the Expo push API
type ExpoPushClient struct {
	client *resty.Client
	url    string
}

// NewExpoPushClient creates a push client posting to url
func NewExpoPushClient(url string) *ExpoPushClient {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &ExpoPushClient{client: client, url: url}
}

func (p *ExpoPushClient) Send(ctx context.Context, token, title, body string, data map[string]interface{}) error {
	payload := map[string]interface{}{
		"to":        token,
		"title":     title,
		"body":      body,
		"data":      data,
		"sound":     "default",
		"priority":  "high",
		"channelId": "booking_updates",
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(p.url)
	if err != nil {
		return fmt.Errorf("expo request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		log.Printf("❌ Expo push send failed: %s - %s", resp.Status(), resp.String())
		return fmt.Errorf("expo push failed: %s", resp.Status())
	}
	return nil
}
