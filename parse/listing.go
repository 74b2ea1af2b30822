// Package parse turns a fetched listing page into torrent records using a
// site definition.
package parse

import (
	"bytes"
	"fmt"
	"runtime/debug"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/extract"
	"github.com/dreamerjackson/torrentspider/record"
	"go.uber.org/zap"
)

type Parser struct {
	options
}

func NewParser(opts ...Option) *Parser {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{options: options}
}

type rowField struct {
	names []string
	set   func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent)
}

// 每行按此顺序提取，未配置的字段跳过
var rowFields = []rowField{
	{[]string{definition.FieldTitle, definition.FieldTitleDefault}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Title = e.Title(row)
	}},
	{[]string{definition.FieldDescription}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Description = e.Description(row)
	}},
	{[]string{definition.FieldDetails}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.PageURL = e.PageURL(row)
	}},
	{[]string{definition.FieldDownload}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Enclosure = e.Enclosure(row)
	}},
	{[]string{definition.FieldIMDBID}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.IMDBID = e.Text(definition.FieldIMDBID, row)
	}},
	{[]string{definition.FieldSize}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Size = e.Size(row)
	}},
	{[]string{definition.FieldLeechers}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Leechers = e.Count(definition.FieldLeechers, row)
	}},
	{[]string{definition.FieldSeeders}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Seeders = e.Count(definition.FieldSeeders, row)
	}},
	{[]string{definition.FieldGrabs}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Grabs = e.Count(definition.FieldGrabs, row)
	}},
	{[]string{definition.FieldDownloadVolumeFactor}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.DownloadVolumeFactor = e.VolumeFactor(definition.FieldDownloadVolumeFactor, row)
	}},
	{[]string{definition.FieldUploadVolumeFactor}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.UploadVolumeFactor = e.VolumeFactor(definition.FieldUploadVolumeFactor, row)
	}},
	{[]string{definition.FieldDateAdded}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.DateAdded = e.Text(definition.FieldDateAdded, row)
	}},
	{[]string{definition.FieldDateElapsed}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.DateElapsed = e.Text(definition.FieldDateElapsed, row)
	}},
	{[]string{definition.FieldFreeDeadline}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.FreeDeadline = e.FreeDeadline(row)
	}},
	{[]string{definition.FieldCategory}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Category = e.Category(row)
	}},
	{[]string{definition.FieldLabels}, func(e *extract.Extractor, row *goquery.Selection, t *record.Torrent) {
		t.Labels = e.Labels(row)
	}},
}

// Parse returns the records of body in document order.
func (p *Parser) Parse(def *definition.Indexer, body []byte) ([]record.Torrent, error) {
	var out []record.Torrent
	_, err := p.Walk(def, body, func(t record.Torrent) {
		out = append(out, t)
	})
	return out, err
}

// Walk hands each record to emit as soon as its row is extracted, so a
// caller can publish partial results. A row that fails is logged and
// skipped. It returns the number of emitted records.
func (p *Parser) Walk(def *definition.Indexer, body []byte, emit func(record.Torrent)) (int, error) {
	if def == nil {
		return 0, fmt.Errorf("nil definition")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse document: %w", err)
	}
	matcher, used, err := CompileList(def.ListSelector())
	if err != nil {
		return 0, err
	}
	if used != def.ListSelector() {
		p.logger.Debug("list selector normalized",
			zap.String("indexer", def.ID),
			zap.String("raw", def.ListSelector()),
			zap.String("used", used))
	}

	e := extract.New(def)
	count := 0
	doc.FindMatcher(matcher).EachWithBreak(func(i int, row *goquery.Selection) bool {
		t, err := p.row(e, def, row)
		if err != nil {
			p.logger.Warn("skip row",
				zap.String("indexer", def.ID),
				zap.Int("row", i),
				zap.Error(err))
			return true
		}
		emit(t)
		count++
		return p.maxResults <= 0 || count < p.maxResults
	})
	return count, nil
}

func (p *Parser) row(e *extract.Extractor, def *definition.Indexer, row *goquery.Selection) (t record.Torrent, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("row panic", zap.String("stack", string(debug.Stack())))
			err = fmt.Errorf("extract row: %v", r)
		}
	}()

	t.IndexerID = def.ID
	for _, f := range rowFields {
		for _, name := range f.names {
			if def.HasField(name) {
				f.set(e, row, &t)
				break
			}
		}
	}
	return t, nil
}
