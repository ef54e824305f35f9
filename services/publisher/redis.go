package publisher

import (
	"context"
	"encoding/base64"
	"hash/crc32"
	"strconv"

	apperrors "sjsage522/carcrawler/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Ping checks that the server is reachable
func (p *RedisPublisher) Ping() error {
	return p.client.Ping(p.ctx).Err()
}

// StreamFor returns the stream a key is published to.
// A listing URL always lands on the same stream, stream:0 ~ stream:N-1.
func (p *RedisPublisher) StreamFor(key string) string {
	n := crc32.ChecksumIEEE([]byte(key)) % uint32(p.streamCount)
	return p.streamPrefix + ":" + strconv.Itoa(int(n))
}

// Publish publishes a message to a Redis stream.
// The message is base64 encoded before publishing
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: p.StreamFor(key),
		Values: map[string]interface{}{
			"url":     key,
			"listing": encodedMessage,
		},
	}).Err()
	if err != nil {
		return apperrors.NewPublisher(key, "failed to publish listing", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	if p.streamMaxLength <= 0 {
		return nil
	}

	for i := 0; i < p.streamCount; i++ {
		stream := p.streamPrefix + ":" + strconv.Itoa(i)
		if err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return apperrors.NewPublisher(stream, "failed to trim stream", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
