package record

// Torrent 单条种子记录，每次搜索每行新建，归调用方所有
type Torrent struct {
	IndexerID   string `json:"indexer"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Enclosure   string `json:"enclosure"`
	PageURL     string `json:"page_url"`
	Size        int64  `json:"size"`
	Seeders     int    `json:"seeders"`
	Leechers    int    `json:"leechers"`
	Grabs       int    `json:"grabs"`
	IMDBID      string `json:"imdbid"`
	// nil 表示站点未声明，调用方按 1.0 处理
	DownloadVolumeFactor *float64 `json:"downloadvolumefactor,omitempty"`
	UploadVolumeFactor   *float64 `json:"uploadvolumefactor,omitempty"`
	DateAdded            string   `json:"date_added"`
	DateElapsed          string   `json:"date_elapsed"`
	FreeDeadline         string   `json:"free_deadline"`
	Category             string   `json:"category"`
	Labels               string   `json:"labels,omitempty"`
}

// DownloadFactor returns the download volume factor, 1.0 when unset.
func (t *Torrent) DownloadFactor() float64 {
	if t.DownloadVolumeFactor == nil {
		return 1
	}
	return *t.DownloadVolumeFactor
}

// UploadFactor returns the upload volume factor, 1.0 when unset.
func (t *Torrent) UploadFactor() float64 {
	if t.UploadVolumeFactor == nil {
		return 1
	}
	return *t.UploadVolumeFactor
}

// IsFree 是否免费（下载量不计）
func (t *Torrent) IsFree() bool {
	return t.DownloadFactor() == 0
}
