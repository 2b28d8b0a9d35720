package probate

import (
	"context"
	"io"
	"probate-records/lib/htmlutil"
	"probate-records/lib/records"
	"probate-records/lib/textutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	SectionDecedent        = "Decedent"
	SectionFiduciary       = "Fiduciary"
	SectionCaseInformation = "Case Information"
)

// SectionReader reads the labeled tables of a case detail page. a section
// is the table nested in the row after the row holding its h4 header.
type SectionReader struct {
	doc *goquery.Document
}

func NewSectionReader(r io.Reader) (SectionReader, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return SectionReader{}, err
	}
	return SectionReader{doc: doc}, nil
}

func NewSectionReaderFromString(html string) (SectionReader, error) {
	return NewSectionReader(strings.NewReader(html))
}

// Status is the text of the case status alert, "" when the page has none.
func (r SectionReader) Status() string {
	return htmlutil.SelectionText(r.doc.Find(".alert-danger strong"))
}

func (r SectionReader) sectionTable(name string) *goquery.Selection {
	header := r.doc.Find("h4.search").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), name)
	}).First()
	if header.Length() == 0 {
		return nil
	}
	table := header.Closest("tr").Next().Find("table").First()
	if table.Length() == 0 {
		return nil
	}
	return table
}

// Section returns the fields of the named section, empty when the section
// or its table is missing.
func (r SectionReader) Section(ctx context.Context, name string) *records.Fields {
	_, span := tracer.Start(ctx, "SectionReader:Section", trace.WithAttributes(
		attribute.String("section", name),
	))
	defer span.End()

	fields := records.NewFields()
	table := r.sectionTable(name)
	if table == nil {
		span.AddEvent("section not found")
		return fields
	}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := htmlutil.SelectionText(row.Find("th.column1"))
		if label == "" {
			return
		}
		value := htmlutil.SelectionText(row.Find("td.column2"))
		value4 := htmlutil.SelectionText(row.Find("td.column4"))

		if name == SectionDecedent {
			readDecedentRow(fields, label, value, value4)
			return
		}
		readFiduciaryRow(fields, label, value, value4)
	})

	span.SetAttributes(attribute.Int("fields", fields.Len()))
	return fields
}

// the decedent table carries the property address, its fourth column is
// the attorney of the estate.
func readDecedentRow(fields *records.Fields, label, value, value4 string) {
	key := textutil.StripLabel(label)
	switch {
	case strings.Contains(label, "Address"):
		fields.Set("Property_Address", value)
	case strings.Contains(label, "City/State/ZIP"):
		fields.Set(records.PropertyLocationKey, value)
	case value4 != "":
		fields.Set(key+"_Attorney", value4)
	default:
		fields.Set(key, value)
	}
}

func readFiduciaryRow(fields *records.Fields, label, value, value4 string) {
	key := textutil.StripLabel(label)
	if strings.Contains(label, "City/State/ZIP") {
		fields.Set(records.MailingLocationKey, value)
	} else if value != "" {
		fields.Set(key, value)
	}
	if value4 != "" {
		fields.Set(key+"_column4", value4)
	}
}

// Case holds everything read from one case detail page.
type Case struct {
	Status          string
	Decedent        *records.Fields
	Fiduciary       *records.Fields
	CaseInformation *records.Fields
}

func (r SectionReader) Case(ctx context.Context) Case {
	return Case{
		Status:          r.Status(),
		Decedent:        r.Section(ctx, SectionDecedent),
		Fiduciary:       r.Section(ctx, SectionFiduciary),
		CaseInformation: r.Section(ctx, SectionCaseInformation),
	}
}
