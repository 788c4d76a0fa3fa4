package redis

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options describes a single Redis node
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int

	DialTimeout time.Duration
	IOTimeout   time.Duration
}

func (o Options) addr() string {
	host := o.Host
	if host == "" {
		host = "localhost"
	}
	port := o.Port
	if port == 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Connect dials Redis and pings it once. The returned client is ready for use;
// on error nothing is left open.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	dial := opts.DialTimeout
	if dial <= 0 {
		dial = 3 * time.Second
	}
	io := opts.IOTimeout
	if io <= 0 {
		io = time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.addr(),
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  dial,
		ReadTimeout:  io,
		WriteTimeout: io,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Join(errors.New("redis ping "+opts.addr()), err, client.Close())
	}
	return client, nil
}
