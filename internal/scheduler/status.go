package scheduler

import (
	"sort"

	"github.com/markusressel/karlson/internal/controller"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// StatusStore holds the latest status of every controller, keyed by device key.
// It is written by the scheduler and read concurrently by the statistics exporter.
type StatusStore struct {
	statuses cmap.ConcurrentMap[string, controller.Status]
}

func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: cmap.New[controller.Status](),
	}
}

func (s *StatusStore) Set(status controller.Status) {
	s.statuses.Set(status.Key, status)
}

func (s *StatusStore) Get(key string) (controller.Status, bool) {
	return s.statuses.Get(key)
}

// Snapshot returns a copy of all statuses, sorted by key
func (s *StatusStore) Snapshot() []controller.Status {
	result := make([]controller.Status, 0, s.statuses.Count())
	for _, status := range s.statuses.Items() {
		result = append(result, status)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}
