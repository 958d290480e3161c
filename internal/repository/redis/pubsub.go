package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type EventsPubSub struct {
	rdb            *redis.Client
	cartChannel    string
	catalogChannel string
}

func NewEventsPubSub(rdb *redis.Client) *EventsPubSub {
	return &EventsPubSub{
		rdb:            rdb,
		cartChannel:    ChannelCartsChanged(),
		catalogChannel: ChannelCatalogChanged(),
	}
}

type cartChangedMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Version   uint64 `json:"version"`
	Lines     int    `json:"lines"`
	TsUnix    int64  `json:"ts_unix"`
}

type catalogChangedMsg struct {
	Type    string `json:"type"`
	Version string `json:"version"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *EventsPubSub) PublishCartChanged(ctx context.Context, sessionID string, version uint64, lines int) error {
	b, _ := json.Marshal(cartChangedMsg{
		Type:      "cart_changed",
		SessionID: sessionID,
		Version:   version,
		Lines:     lines,
		TsUnix:    time.Now().Unix(),
	})

	return p.rdb.Publish(ctx, p.cartChannel, b).Err()
}

func (p *EventsPubSub) PublishCatalogChanged(ctx context.Context, version string) error {
	b, _ := json.Marshal(catalogChangedMsg{
		Type:    "catalog_changed",
		Version: version,
		TsUnix:  time.Now().Unix(),
	})

	return p.rdb.Publish(ctx, p.catalogChannel, b).Err()
}

// SubscribeCatalog calls handler for every catalog_changed message until ctx
// is done.
func (p *EventsPubSub) SubscribeCatalog(ctx context.Context, handler func(ctx context.Context, version string)) error {
	sub := p.rdb.Subscribe(ctx, p.catalogChannel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(16))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev catalogChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.Type == "catalog_changed" {
				handler(ctx, ev.Version)
			}
		}
	}
}
