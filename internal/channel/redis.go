package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/notify"
)

// Redis is a channel backed by a Redis pub/sub topic. Redis delivers a
// peer's own publications back to it.
type Redis struct {
	client *redis.Client
	pubsub *redis.PubSub
	topic  string
	fan    *notify.Hub[Envelope]
	logger zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// DialRedis connects to the Redis server at rawURL and subscribes to topic.
func DialRedis(ctx context.Context, rawURL, password, topic string, logger zerolog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", cerrors.ErrChannelClosed, err)
	}

	pubsub := client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		_ = client.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	r := &Redis{
		client: client,
		pubsub: pubsub,
		topic:  topic,
		fan:    notify.New[Envelope](subscriberBuffer),
		logger: logger.With().Str("transport", "redis").Str("topic", topic).Logger(),
		done:   make(chan struct{}),
	}
	go r.receive()
	return r, nil
}

func (r *Redis) receive() {
	defer close(r.done)
	defer r.fan.Close()

	for msg := range r.pubsub.Channel() {
		env, err := Decode([]byte(msg.Payload))
		if err != nil {
			r.logger.Warn().Err(err).Msg("dropping malformed message")
			continue
		}
		r.fan.Publish(env)
	}
}

// Publish sends env to the topic.
func (r *Redis) Publish(ctx context.Context, env Envelope) error {
	data, err := Encode(env)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.topic, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe registers a new subscriber.
func (r *Redis) Subscribe() (<-chan Envelope, func()) {
	return r.fan.Subscribe()
}

// Close unsubscribes and closes the client.
func (r *Redis) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.pubsub.Close()
		<-r.done
		if cerr := r.client.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

var _ Channel = (*Redis)(nil)
