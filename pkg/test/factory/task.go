package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskmanager/internal/core/domain"
)

func NewTask[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{
		"ID":        uuid.New(),
		"Status":    domain.TaskStatusPending,
		"CreatedAt": time.Now().UTC().Truncate(time.Second),
	}

	// fabricator's Build only applies the first overrides map, so merge
	// defaults and caller overrides into one map (caller wins).
	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return instance.Build(defaults)
}
