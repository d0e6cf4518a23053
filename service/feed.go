package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/redis/go-redis/v9"
)

// Change event types
const (
	EventContractSaved   = "contract.saved"
	EventContractSigned  = "contract.signed"
	EventContractRevised = "contract.revised"
)

// ChangeEvent tells viewers of a contract that it changed. Subscribers reload
// the record rather than trusting any structured fields they cached.
type ChangeEvent struct {
	Type     string          `json:"type"`
	Contract *model.Contract `json:"contract"`
	At       time.Time       `json:"at"`
}

// ChangeFeed publishes contract changes to whoever is watching
type ChangeFeed interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	Close() error
}

// NopFeed drops every event; used when no broker is configured
type NopFeed struct{}

func (NopFeed) Publish(context.Context, ChangeEvent) error { return nil }
func (NopFeed) Close() error                               { return nil }

// RedisFeed publishes change events on a Redis pub/sub channel
type RedisFeed struct {
	rdb     *redis.Client
	channel string
}

func NewRedisFeed(ctx context.Context, cfg *config.RedisConfig) (*RedisFeed, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisFeed{rdb: rdb, channel: cfg.Channel}, nil
}

func (f *RedisFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, f.channel, raw).Err()
}

// Subscribe calls onEvent for every change until ctx is cancelled
func (f *RedisFeed) Subscribe(ctx context.Context, onEvent func(ChangeEvent)) error {
	sub := f.rdb.Subscribe(ctx, f.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					slog.Warn("bad contract change payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

// LogChange writes one audit line per change seen on the feed, including
// changes made by other replicas.
func LogChange(ev ChangeEvent) {
	if ev.Contract == nil {
		slog.Warn("contract change without record", "type", ev.Type)
		return
	}
	slog.Info("contract change observed",
		"type", ev.Type,
		"contract_id", ev.Contract.ID,
		"event_id", ev.Contract.EventID,
		"vendor_id", ev.Contract.VendorID,
		"status", ev.Contract.Status,
		"at", ev.At,
	)
}

func (f *RedisFeed) Close() error {
	return f.rdb.Close()
}
