package record

import "time"

// Stat 一次站点搜索的统计
type Stat struct {
	Indexer string
	Elapsed time.Duration
	Success bool
	At      time.Time
}

// Seconds 搜索耗时，向下取整
func (s Stat) Seconds() int {
	return int(s.Elapsed / time.Second)
}

// Result Y 表示有结果，N 表示没有
func (s Stat) Result() string {
	if s.Success {
		return "Y"
	}
	return "N"
}
