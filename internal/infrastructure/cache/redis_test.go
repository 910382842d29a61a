package cache

import (
	"context"
	"io"
	"testing"

	"patient-study-api/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_UnreachableServer(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1"}, log)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "ping redis at 127.0.0.1:1")
}
