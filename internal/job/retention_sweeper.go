package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/history"
)

// RetentionSweeper periodically applies the retention policy across all
// songs, dropping versions outside the window.
type RetentionSweeper struct {
	service  *history.Service
	schedule string
}

// NewRetentionSweeper creates a sweeper with the given cron schedule,
// e.g. "@every 1h".
func NewRetentionSweeper(service *history.Service, schedule string) *RetentionSweeper {
	if schedule == "" {
		schedule = "@every 1h"
	}
	return &RetentionSweeper{
		service:  service,
		schedule: schedule,
	}
}

func (s *RetentionSweeper) Schedule() string {
	return s.schedule
}

func (s *RetentionSweeper) Run() {
	ctx := context.Background()

	songs, err := s.service.ListSongs(ctx)
	if err != nil {
		logrus.Errorf("retention sweep: listing songs: %v", err)
		return
	}

	total := 0
	for _, song := range songs {
		id, err := uuid.Parse(song.ID)
		if err != nil {
			logrus.Errorf("retention sweep: song %s has a bad id: %v", song.ID, err)
			continue
		}

		pruned, err := s.service.Prune(ctx, id)
		if err != nil {
			logrus.Errorf("retention sweep: pruning song %s: %v", song.ID, err)
			continue
		}
		total += pruned
	}

	if total > 0 {
		logrus.Infof("retention sweep removed %d versions across %d songs", total, len(songs))
	}
}
