// Package extract applies a site's declarative field rules to one listing row.
//
// Every lookup absorbs failure: a selector that matches nothing, an attribute
// that is missing or a counter that is not a number all produce the zero value
// of the field instead of an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/torrentspider/definition"
)

type Extractor struct {
	def *definition.Indexer
}

func New(def *definition.Indexer) *Extractor {
	return &Extractor{def: def}
}

// nodes selects spec's matches under row. With remove entries the matches
// are cloned first so the shared document is never touched.
func nodes(spec *definition.FieldSpec, row *goquery.Selection) *goquery.Selection {
	sel := row.Find(spec.Selector)
	if sel.Length() == 0 || len(spec.Remove) == 0 {
		return sel
	}
	sel = sel.Clone()
	for _, r := range spec.Remove {
		sel.Find(r).Remove()
	}
	return sel
}

func items(spec *definition.FieldSpec, sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if spec.HasAttribute() {
			// 缺少属性的节点占位为空串，保持 index 对应的位置
			out = append(out, s.AttrOr(spec.Attribute, ""))
			return
		}
		out = append(out, nodeText(s))
	})
	return out
}

// pick honors contents (n-th line of the joined text) and index (n-th item),
// both falling back to the first entry when n is out of range.
func pick(spec *definition.FieldSpec, values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	switch {
	case spec.Contents != nil:
		segs := strings.Split(strings.Join(values, "\n"), "\n")
		if n := *spec.Contents; n >= 0 && n < len(segs) {
			return segs[n], true
		}
		return segs[0], true
	case spec.Index != nil:
		n := *spec.Index
		if n < 0 {
			n += len(values)
		}
		if n >= 0 && n < len(values) {
			return values[n], true
		}
		return values[0], true
	default:
		return values[0], true
	}
}

// Raw returns the selected text or attribute before filters run.
func (e *Extractor) Raw(spec *definition.FieldSpec, row *goquery.Selection) (string, bool) {
	if spec == nil || spec.Selector == "" || row == nil {
		return "", false
	}
	return pick(spec, items(spec, nodes(spec, row)))
}

// Value is Raw followed by the field's filter chain.
func (e *Extractor) Value(spec *definition.FieldSpec, row *goquery.Selection) (string, bool) {
	v, ok := e.Raw(spec, row)
	if !ok {
		return "", false
	}
	return ApplyFilters(v, spec.Filters), true
}

// Values returns every match with filters applied to each one.
func (e *Extractor) Values(spec *definition.FieldSpec, row *goquery.Selection) []string {
	if spec == nil || spec.Selector == "" || row == nil {
		return nil
	}
	vs := items(spec, nodes(spec, row))
	for i := range vs {
		vs[i] = ApplyFilters(vs[i], spec.Filters)
	}
	return vs
}

func (e *Extractor) field(name string, row *goquery.Selection) (string, bool) {
	return e.Value(e.def.Field(name), row)
}

func (e *Extractor) templateValues(row *goquery.Selection, names ...string) map[string]string {
	values := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := e.field(n, row); ok {
			values[n] = v
		}
	}
	return values
}

func (e *Extractor) Title(row *goquery.Selection) string {
	spec := e.def.Field(definition.FieldTitle)
	switch {
	case spec == nil:
		v, _ := e.field(definition.FieldTitleDefault, row)
		return v
	case spec.Selector != "":
		v, _ := e.Value(spec, row)
		return v
	case spec.Text != "":
		values := e.templateValues(row, definition.FieldTitleDefault, definition.FieldTitleOptional)
		return ApplyFilters(Render(spec.Text, values), spec.Filters)
	default:
		v, _ := e.field(definition.FieldTitleDefault, row)
		return v
	}
}

func (e *Extractor) Description(row *goquery.Selection) string {
	spec := e.def.Field(definition.FieldDescription)
	if spec == nil {
		return ""
	}
	if spec.Selector != "" {
		v, _ := e.Value(spec, row)
		return v
	}
	if spec.Text == "" {
		return ""
	}
	// 有的站点免费信息分散在多个节点，需要拼接
	values := e.templateValues(row,
		definition.FieldTags,
		definition.FieldSubject,
		definition.FieldDescriptionFreeForever,
		definition.FieldDescriptionNormal,
	)
	return ApplyFilters(Render(spec.Text, values), spec.Filters)
}

func (e *Extractor) PageURL(row *goquery.Selection) string {
	v, _ := e.field(definition.FieldDetails, row)
	return ResolveURL(e.def.Domain, v)
}

func (e *Extractor) Enclosure(row *goquery.Selection) string {
	v, _ := e.field(definition.FieldDownload, row)
	return ResolveURL(e.def.Domain, v)
}

// Text returns a passthrough string field such as date_added.
func (e *Extractor) Text(name string, row *goquery.Selection) string {
	v, _ := e.field(name, row)
	return v
}

func (e *Extractor) Size(row *goquery.Selection) int64 {
	spec := e.def.Field(definition.FieldSize)
	v, ok := e.Raw(spec, row)
	if !ok {
		return 0
	}
	v = strings.ReplaceAll(v, "\n", "")
	return ParseSize(ApplyFilters(strings.TrimSpace(v), spec.Filters))
}

// Count reads seeders, leechers or grabs. "12/3" counts as 12.
func (e *Extractor) Count(name string, row *goquery.Selection) int {
	spec := e.def.Field(name)
	v, ok := e.Raw(spec, row)
	if !ok {
		return 0
	}
	v = strings.SplitN(v, "/", 2)[0]
	return ParseCount(ApplyFilters(v, spec.Filters))
}

// VolumeFactor walks case entries in declaration order and stops at the
// first selector that matches anything in the row. Without case entries a
// plain selector is read and its first number used. nil means unset.
func (e *Extractor) VolumeFactor(name string, row *goquery.Selection) *float64 {
	spec := e.def.Field(name)
	if spec == nil || row == nil {
		return nil
	}
	if len(spec.Case) > 0 {
		for _, c := range spec.Case {
			if row.Find(c.Selector).Length() > 0 {
				v := c.Value
				return &v
			}
		}
		return nil
	}
	v, ok := e.Value(spec, row)
	if !ok {
		return nil
	}
	if f, ok := firstNumber(v); ok {
		return &f
	}
	return nil
}

func (e *Extractor) FreeDeadline(row *goquery.Selection) string {
	v, _ := e.field(definition.FieldFreeDeadline, row)
	return v
}

// Category runs the filters over every extracted item and keeps the first
// non-empty result.
func (e *Extractor) Category(row *goquery.Selection) string {
	for _, v := range e.Values(e.def.Field(definition.FieldCategory), row) {
		if v != "" {
			return v
		}
	}
	return ""
}

func (e *Extractor) Labels(row *goquery.Selection) string {
	var out []string
	for _, v := range e.Values(e.def.Field(definition.FieldLabels), row) {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, "|")
}
