package store

import (
	"encoding/json"
	"os"
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/report"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// ReportStore keeps JSON encoded reports in a single bbolt bucket.
type ReportStore struct {
	Db       *bolt.DB
	DbFile   string
	FileMode os.FileMode
	Bucket   string
}

func NewReportStore(file string, mode os.FileMode, bucket string) (*ReportStore, error) {
	db, err := bolt.Open(file, mode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %v", file)
	}
	r := ReportStore{
		DbFile:   file,
		FileMode: mode,
		Db:       db,
		Bucket:   bucket,
	}

	if err := r.CreateBucket(); err != nil {
		db.Close()
		return nil, err
	}
	return &r, nil
}

func (r *ReportStore) CreateBucket() error {
	return r.Db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(r.Bucket))
		return errors.Wrapf(err, "create bucket %s", r.Bucket)
	})
}

func (r *ReportStore) Put(key string, value interface{}) error {
	rep, ok := value.(*report.Report)
	if !ok {
		return errors.Errorf("value %v is not a report.Report type", value)
	}
	buf, err := json.Marshal(rep)
	if err != nil {
		return errors.Wrapf(err, "marshal report %s", key)
	}

	return r.Db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(r.Bucket))
		return b.Put([]byte(key), buf)
	})
}

func (r *ReportStore) Get(key string) (interface{}, error) {
	var rep report.Report
	err := r.Db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(r.Bucket))
		v := b.Get([]byte(key))
		if v == nil {
			return errors.Wrapf(ErrNotFound, "report with key %s", key)
		}
		return errors.Wrapf(json.Unmarshal(v, &rep), "unmarshal report %s", key)
	})
	if err != nil {
		return nil, err
	}
	rep.Restore()
	return &rep, nil
}

func (r *ReportStore) List() (interface{}, error) {
	reports := []*report.Report{}
	err := r.Db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(r.Bucket))
		return b.ForEach(func(k, v []byte) error {
			var rep report.Report
			if err := json.Unmarshal(v, &rep); err != nil {
				return errors.Wrapf(err, "unmarshal report %s", k)
			}
			rep.Restore()
			reports = append(reports, &rep)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortReports(reports)
	return reports, nil
}

func (r *ReportStore) Count() (int, error) {
	count := 0
	err := r.Db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(r.Bucket)).Stats().KeyN
		return nil
	})
	if err != nil {
		return -1, err
	}
	return count, nil
}

func (r *ReportStore) Close() error {
	return r.Db.Close()
}
