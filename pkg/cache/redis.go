// Package cache builds the shared Redis client behind the metadata cache.
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/timetable-workspace/pkg/config"
)

// KeyPrefix namespaces every key the workspace writes.
const KeyPrefix = "timetable-workspace:"

const startupPing = 5 * time.Second

// Options maps the config onto client options. An unset host or port
// falls back to localhost:6379.
func Options(cfg config.RedisConfig) *redis.Options {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 6379
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   "timetable-workspace",
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// NewRedis connects and pings once so a dead cache is reported at startup
// rather than on the first metadata read.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), startupPing)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", client.Options().Addr, err)
	}
	return client, nil
}
