package notify

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	"go.uber.org/zap"
)

// Channel and event names used by the session live view.
const (
	SessionsChannel     = "sessions"
	EventSession        = "onSession"
	EventSessionRemoved = "onSessionRemoved"
)

// Publisher delivers fire-and-forget events to a real-time channel.
// Delivery failures are logged, never surfaced to the caller.
type Publisher interface {
	Publish(channel, event string, payload interface{})
}

// Hub is the in-process event bus behind Publisher. Local consumers
// (the push relay, tests) subscribe by channel topic.
type Hub struct {
	bus EventBus.Bus
}

func NewHub() *Hub {
	return &Hub{bus: EventBus.New()}
}

func topic(channel, event string) string {
	return channel + ":" + event
}

func (h *Hub) Publish(channel, event string, payload interface{}) {
	h.bus.Publish(topic(channel, event), payload)
}

// Subscribe registers fn for a channel/event pair. fn runs on the
// publisher's goroutine.
func (h *Hub) Subscribe(channel, event string, fn interface{}) error {
	return h.bus.Subscribe(topic(channel, event), fn)
}

// SubscribeAsync registers fn to run on its own goroutine per event.
func (h *Hub) SubscribeAsync(channel, event string, fn interface{}) error {
	return h.bus.SubscribeAsync(topic(channel, event), fn, false)
}

func (h *Hub) Unsubscribe(channel, event string, fn interface{}) error {
	return h.bus.Unsubscribe(topic(channel, event), fn)
}

// PushClient posts events to a Pusher-compatible HTTP endpoint.
type PushClient struct {
	endpoint string
	appId    string
	key      string
	secret   string
	timeout  time.Duration
}

func NewPushClient(endpoint, appId, key, secret string) *PushClient {
	return &PushClient{
		endpoint: endpoint,
		appId:    appId,
		key:      key,
		secret:   secret,
		timeout:  5 * time.Second,
	}
}

type pushEvent struct {
	Name    string      `json:"name"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// Trigger sends one event to the push channel endpoint.
func (p *PushClient) Trigger(channel, event string, payload interface{}) error {
	url := fmt.Sprintf("%s/apps/%s/events", p.endpoint, p.appId)
	var code int
	err := gout.POST(url).
		SetQuery(gout.H{"auth_key": p.key, "auth_secret": p.secret}).
		SetJSON(pushEvent{Name: event, Channel: channel, Data: payload}).
		SetTimeout(p.timeout).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code >= 300 {
		return fmt.Errorf("push channel returned status %d", code)
	}
	return nil
}

// StartPushRelay forwards hub events for a channel to the outbound push
// client. Failures are logged and dropped.
func StartPushRelay(hub *Hub, client *PushClient, channel string) {
	for _, event := range []string{EventSession, EventSessionRemoved} {
		event := event
		err := hub.SubscribeAsync(channel, event, func(payload interface{}) {
			if err := client.Trigger(channel, event, payload); err != nil {
				zap.L().Error("push relay delivery failed",
					zap.String("channel", channel),
					zap.String("event", event),
					zap.Error(err))
			}
		})
		if err != nil {
			zap.L().Error("push relay subscribe failed",
				zap.String("channel", channel),
				zap.String("event", event),
				zap.Error(err))
		}
	}
	zap.L().Info("push relay started", zap.String("channel", channel))
}
