package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/onecard-bot/onecard_bot/internal/config"
	"github.com/onecard-bot/onecard_bot/internal/logging"
)

func TestConnectSkipsUnsetBackends(t *testing.T) {
	b, err := Connect(context.Background(), config.Config{AppEnv: "development"}, logging.Discard())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close()
	if b.DB != nil || b.Cache != nil {
		t.Fatalf("expected no backends, got %+v", b)
	}
}

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	b, err := Connect(context.Background(), config.Config{AppEnv: "development", RedisURL: "redis://" + mr.Addr() + "/0"}, logging.Discard())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close()
	if b.Cache == nil {
		t.Fatal("expected redis client")
	}
	if err := b.Cache.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("expected v, got %q", got)
	}
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected parse error")
	}
}
