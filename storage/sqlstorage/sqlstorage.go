// Package sqlstorage records per-indexer search statistics in MySQL.
package sqlstorage

import (
	"sync"

	"github.com/dreamerjackson/torrentspider/record"
	"github.com/dreamerjackson/torrentspider/sqldb"
	"go.uber.org/zap"
)

var columns = []sqldb.Field{
	{Title: "INDEXER", Type: "VARCHAR(128)"},
	{Title: "SECONDS", Type: "INT"},
	{Title: "RESULT", Type: "CHAR(1)"},
	{Title: "DATE", Type: "VARCHAR(32)"},
}

const timeLayout = "2006-01-02 15:04:05"

type SQLStorage struct {
	mu         sync.Mutex
	dataDocker []record.Stat // 分批输出结果缓存
	db         sqldb.DBer
	created    bool
	options
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	db, err := sqldb.New(
		sqldb.WithConnURL(options.sqlURL),
		sqldb.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	return newWithDB(db, options), nil
}

func newWithDB(db sqldb.DBer, options options) *SQLStorage {
	if options.BatchCount <= 0 {
		options.BatchCount = 1
	}
	return &SQLStorage{db: db, options: options}
}

// Record buffers one stat and flushes when the batch is full.
func (s *SQLStorage) Record(stat record.Stat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		// 创建表
		err := s.db.CreateTable(sqldb.TableData{
			TableName:   s.table,
			ColumnNames: columns,
			AutoKey:     true,
		})
		if err != nil {
			s.logger.Error("create table failed", zap.Error(err))
		} else {
			s.created = true
		}
	}

	s.dataDocker = append(s.dataDocker, stat)

	if len(s.dataDocker) >= s.BatchCount {
		return s.flush()
	}

	return nil
}

func (s *SQLStorage) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *SQLStorage) flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}

	defer func() {
		s.dataDocker = nil
	}()

	args := make([]interface{}, 0, len(s.dataDocker)*len(columns))
	for _, st := range s.dataDocker {
		args = append(args, st.Indexer, st.Seconds(), st.Result(), st.At.Format(timeLayout))
	}

	err := s.db.Insert(sqldb.TableData{
		TableName:   s.table,
		ColumnNames: columns,
		Args:        args,
		DataCount:   len(s.dataDocker),
	})
	if err != nil {
		s.logger.Error("insert data failed", zap.Int("count", len(s.dataDocker)), zap.Error(err))
	}

	return err
}
