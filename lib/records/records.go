package records

import (
	"fmt"
	"time"
)

const (
	StatusKey = "case_status"

	PropertyLocationKey = "Property_Location"
	MailingLocationKey  = "Mailing_Location"
)

// CaseRecord is one flattened case, its keys come from whatever labels
// were on the case page. it cannot be changed once built.
type CaseRecord struct {
	fields *Fields
}

func (r CaseRecord) Get(key string) (string, bool) {
	return r.fields.Get(key)
}

func (r CaseRecord) Keys() []string {
	return r.fields.Keys()
}

func (r CaseRecord) Len() int {
	return r.fields.Len()
}

func (r CaseRecord) Map() map[string]string {
	return r.fields.Map()
}

// ResultSet holds the records of a run in the order their cases were
// visited.
type ResultSet struct {
	records []CaseRecord
}

func (s ResultSet) Len() int {
	return len(s.records)
}

func (s ResultSet) Records() []CaseRecord {
	out := make([]CaseRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Columns is the union of the keys of all records, in the order each key
// was first seen.
func (s ResultSet) Columns() []string {
	seen := map[string]bool{}
	var columns []string
	for _, r := range s.records {
		for _, key := range r.Keys() {
			if seen[key] {
				continue
			}
			seen[key] = true
			columns = append(columns, key)
		}
	}
	return columns
}

// Rows returns one row per record with a cell for every column, fields a
// record doesn't have are empty.
func (s ResultSet) Rows() [][]string {
	columns := s.Columns()
	rows := make([][]string, len(s.records))
	for i, r := range s.records {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j], _ = r.Get(col)
		}
		rows[i] = row
	}
	return rows
}

// Filename is the name of the exported file for a search date.
func Filename(date time.Time) string {
	return fmt.Sprintf("probate_records_%s.csv", date.Format("20060102"))
}

// Aggregator accumulates the records of a run.
type Aggregator struct {
	result ResultSet
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func splitLocation(fields *Fields, key, prefix string) {
	location, ok := fields.Get(key)
	if !ok {
		return
	}
	parts := ParseLocation(location)
	fields.Set(prefix+"_City", parts.City)
	fields.Set(prefix+"_State", parts.State)
	fields.Set(prefix+"_ZIP", parts.Zip)
	fields.Delete(key)
}

// Add flattens the sections of one case into a record and appends it.
// sections are merged in the order given, a later section overwrites the
// keys of an earlier one.
func (a *Aggregator) Add(status string, decedent, fiduciary, caseInfo *Fields) CaseRecord {
	fields := NewFields()
	fields.Set(StatusKey, status)
	fields.Merge(decedent)
	fields.Merge(fiduciary)
	fields.Merge(caseInfo)

	splitLocation(fields, PropertyLocationKey, "Property")
	splitLocation(fields, MailingLocationKey, "Mailing")

	record := CaseRecord{fields: fields}
	a.result.records = append(a.result.records, record)
	return record
}

func (a *Aggregator) Result() ResultSet {
	return ResultSet{records: a.result.Records()}
}
