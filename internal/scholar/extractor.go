package scholar

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResultSource abstracts one markup variant of a results page. Scholar
// reshuffles its markup from time to time; keeping selection behind
// this interface isolates the blast radius.
type ResultSource interface {
	// Blocks returns the self-contained result subtrees on a page.
	Blocks(doc *goquery.Document) *goquery.Selection
	// Extract derives a Paper from one result block. It never fails:
	// missing sub-elements degrade to sentinel defaults.
	Extract(block *goquery.Selection) Paper
}

var (
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	pdfTagPattern = regexp.MustCompile(`(?i)\[PDF\]`)
)

// scholarHTML extracts from the classic gs_r result markup.
type scholarHTML struct{}

// NewResultSource returns the extractor for the current Scholar markup.
func NewResultSource() ResultSource {
	return &scholarHTML{}
}

func (s *scholarHTML) Blocks(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div.gs_r")
}

func (s *scholarHTML) Extract(block *goquery.Selection) Paper {
	p := Paper{
		Title:   DefaultTitle,
		Authors: DefaultAuthors,
		Year:    DefaultYear,
	}

	title := block.Find("h3.gs_rt").First()
	if title.Length() > 0 {
		if t := strings.TrimSpace(title.Text()); t != "" {
			p.Title = t
		}
		if href, ok := title.Find("a[href]").First().Attr("href"); ok {
			p.SourceURL = href
		}
	}

	if byline := block.Find("div.gs_a").First(); byline.Length() > 0 {
		if a := strings.TrimSpace(byline.Text()); a != "" {
			p.Authors = a
		}
	}
	if year := yearPattern.FindString(p.Authors); year != "" {
		p.Year = year
	}

	p.Abstract = strings.TrimSpace(block.Find("div.gs_rs").First().Text())

	// The direct-PDF anchor is identified by its visible "[PDF]" text.
	block.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !pdfTagPattern.MatchString(a.Text()) {
			return true
		}
		if href, ok := a.Attr("href"); ok {
			p.PDFLink = href
			return false
		}
		return true
	})

	return p
}
