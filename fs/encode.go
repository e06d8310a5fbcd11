package fs

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/newscrawl"
)

// csvHeader is the column order of CSV output.
var csvHeader = []string{
	"url", "title", "preview_text", "content", "author",
	"published_date", "category", "crawl_date", "source_index_url", "partial",
}

func encode(w io.Writer, format Format, records []*newscrawl.ArticleRecord) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, records)
	case FormatCSV:
		return encodeCSV(w, records)
	case FormatXML:
		return encodeXML(w, records)
	default:
		return newscrawl.Errorf(newscrawl.EINVALID, "unknown output format %q", format)
	}
}

func encodeJSON(w io.Writer, records []*newscrawl.ArticleRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func encodeCSV(w io.Writer, records []*newscrawl.ArticleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.URL,
			r.Title,
			r.PreviewText,
			deref(r.Content),
			deref(r.Author),
			deref(r.PublishedDate),
			deref(r.Category),
			r.CrawlDate.String(),
			r.SourceIndexURL,
			strconv.FormatBool(r.Partial),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// encodeXML writes <articles><article>...</article></articles>. Absent
// optional fields produce no element.
func encodeXML(w io.Writer, records []*newscrawl.ArticleRecord) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("articles")
	root.CreateAttr("count", strconv.Itoa(len(records)))

	for _, r := range records {
		article := root.CreateElement("article")
		if r.Partial {
			article.CreateAttr("partial", "true")
		}
		article.CreateElement("url").SetText(r.URL)
		article.CreateElement("title").SetText(r.Title)
		optional(article, "preview_text", &r.PreviewText)
		optional(article, "content", r.Content)
		optional(article, "author", r.Author)
		optional(article, "published_date", r.PublishedDate)
		optional(article, "category", r.Category)
		article.CreateElement("crawl_date").SetText(r.CrawlDate.String())
		article.CreateElement("source_index_url").SetText(r.SourceIndexURL)
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func optional(parent *etree.Element, tag string, value *string) {
	if value == nil || *value == "" {
		return
	}
	parent.CreateElement(tag).SetText(*value)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
