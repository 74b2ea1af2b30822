package spider

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dreamerjackson/torrentspider/record"
)

// Job 一次抓取+解析任务。结果缓冲和完成标志属于本任务，不跨搜索复用
type Job struct {
	ID snowflake.ID
	// 请求的唯一识别码，见 Request.Unique
	Key     string
	Started time.Time

	mu      sync.Mutex
	records []record.Torrent
	err     error
	done    atomic.Bool
}

func newJob(id snowflake.ID, key string) *Job {
	return &Job{ID: id, Key: key, Started: time.Now()}
}

// Publish appends one record; it may be collected before the job finishes.
func (j *Job) Publish(t record.Torrent) {
	j.mu.Lock()
	j.records = append(j.records, t)
	j.mu.Unlock()
}

func (j *Job) finish(err error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	j.done.Store(true)
}

func (j *Job) Done() bool {
	return j.done.Load()
}

func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Take returns what has been published so far and clears the buffer.
func (j *Job) Take() []record.Torrent {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.records
	j.records = nil
	return out
}
