package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisLockerUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	l := NewRedisLocker(rdb)
	l.wait = 200 * time.Millisecond

	unlock, err := l.Lock(context.Background(), "signup:alice")
	assert.Error(t, err)
	assert.Nil(t, unlock)
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken()
	assert.NoError(t, err)
	b, _ := randomToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
