package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Service обёртка над in-memory кэшем. Держит горячие ответы
// (расписания групп), инвалидируется при каждом сохранении.
type Service struct {
	cache *gocache.Cache
}

func New(defaultExpiration, cleanupInterval time.Duration) *Service {
	return &Service{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (s *Service) Get(key string) (interface{}, bool) {
	return s.cache.Get(key)
}

func (s *Service) Set(key string, value interface{}) {
	s.cache.Set(key, value, gocache.DefaultExpiration)
}

func (s *Service) Delete(key string) {
	s.cache.Delete(key)
}

func (s *Service) Flush() {
	s.cache.Flush()
}

// ScheduleKey ключ кэша расписания группы
func ScheduleKey(groupID uint) string {
	return fmt.Sprintf("schedule:%d", groupID)
}
