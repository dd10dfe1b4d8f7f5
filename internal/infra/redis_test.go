package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/dpaula-bank/bank/internal/logging"
)

func TestNewRedisClientOptional(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", logging.Discard())
	if err != nil || client != nil {
		t.Fatalf("expected nil client without url, got %v %v", client, err)
	}
}

func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0", logging.Discard())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()
}

func TestNewRedisClientBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "://nope", logging.Discard()); err == nil {
		t.Fatalf("expected parse error")
	}
}
