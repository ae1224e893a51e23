package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const snapshotTTL = 24 * time.Hour

func snapshotKey(songID uuid.UUID, version int64) string {
	return fmt.Sprintf("song:%s:version:%d", songID, version)
}

var _ SnapshotCache = (*Redis)(nil)

// Redis is a SnapshotCache backed by a redis instance, for deployments
// where several workers share reconstruction work.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, songID uuid.UUID, version int64) (string, bool) {
	content, err := r.client.Get(ctx, snapshotKey(songID, version)).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.Debugf("snapshot cache get failed: %v", err)
		}
		return "", false
	}
	return content, true
}

func (r *Redis) Set(ctx context.Context, songID uuid.UUID, version int64, content string) {
	err := r.client.Set(ctx, snapshotKey(songID, version), content, snapshotTTL).Err()
	if err != nil {
		logrus.Debugf("snapshot cache set failed: %v", err)
	}
}

func (r *Redis) Delete(ctx context.Context, songID uuid.UUID, version int64) {
	err := r.client.Del(ctx, snapshotKey(songID, version)).Err()
	if err != nil {
		logrus.Debugf("snapshot cache delete failed: %v", err)
	}
}
