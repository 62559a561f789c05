package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

var rdb *goredis.Client

// Init connects the shared client. Presence mirroring stays disabled until
// this succeeds.
func Init(ctx context.Context, c Config) error {
	cli := goredis.NewClient(&goredis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	if err := cli.Ping(ctx).Err(); err != nil {
		return err
	}
	rdb = cli
	return nil
}

// Client returns the shared client, nil when Init has not run.
func Client() *goredis.Client { return rdb }
