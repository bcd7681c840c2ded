package store

import (
	"sync"

	"github.com/MarouaneBouaricha/ehamm/internal/report"

	"github.com/pkg/errors"
)

type InMemoryReportStore struct {
	mu sync.RWMutex
	Db map[string]*report.Report
}

func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{
		Db: make(map[string]*report.Report),
	}
}

func (i *InMemoryReportStore) Put(key string, value interface{}) error {
	r, ok := value.(*report.Report)
	if !ok {
		return errors.Errorf("value %v is not a report.Report type", value)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Db[key] = r
	return nil
}

func (i *InMemoryReportStore) Get(key string) (interface{}, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	r, ok := i.Db[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "report with key %s", key)
	}
	return r, nil
}

func (i *InMemoryReportStore) List() (interface{}, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	reports := make([]*report.Report, 0, len(i.Db))
	for _, r := range i.Db {
		reports = append(reports, r)
	}
	sortReports(reports)
	return reports, nil
}

func (i *InMemoryReportStore) Count() (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.Db), nil
}

func (i *InMemoryReportStore) Close() error {
	return nil
}
