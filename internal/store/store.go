package store

import (
	"sort"

	"github.com/MarouaneBouaricha/ehamm/internal/report"

	"github.com/pkg/errors"
)

const (
	MemoryType     = "memory"
	PersistentType = "persistent"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	Put(key string, value interface{}) error
	Get(key string) (interface{}, error)
	List() (interface{}, error)
	Count() (int, error)
	Close() error
}

// New returns the report store of the given type. path is only used by the
// persistent store.
func New(dbType string, path string) (Store, error) {
	switch dbType {
	case MemoryType, "":
		return NewInMemoryReportStore(), nil
	case PersistentType:
		return NewReportStore(path, 0600, "reports")
	default:
		return nil, errors.Errorf("unknown store type %q", dbType)
	}
}

func sortReports(reports []*report.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].FinishTime.Equal(reports[j].FinishTime) {
			return reports[i].ID.String() < reports[j].ID.String()
		}
		return reports[i].FinishTime.Before(reports[j].FinishTime)
	})
}
