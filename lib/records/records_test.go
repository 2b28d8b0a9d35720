package records

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fieldsOf(pairs ...string) *Fields {
	f := NewFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

func TestFields(t *testing.T) {
	f := fieldsOf("b", "1", "a", "2")
	f.Set("b", "3")
	require.Equal(t, []string{"b", "a"}, f.Keys())
	value, ok := f.Get("b")
	require.True(t, ok)
	require.Equal(t, "3", value)

	f.Delete("b")
	f.Delete("missing")
	require.Equal(t, []string{"a"}, f.Keys())
	_, ok = f.Get("b")
	require.False(t, ok)

	var empty Fields
	empty.Set("x", "y")
	require.Equal(t, map[string]string{"x": "y"}, empty.Map())
}

func TestAggregatorSplitsMailingLocation(t *testing.T) {
	agg := NewAggregator()
	record := agg.Add(
		"OPEN",
		nil,
		fieldsOf("Name", "Jane Doe", MailingLocationKey, "Dayton, OH 45402"),
		nil,
	)

	expected := map[string]string{
		StatusKey:       "OPEN",
		"Name":          "Jane Doe",
		"Mailing_City":  "Dayton",
		"Mailing_State": "OH",
		"Mailing_ZIP":   "45402",
	}
	if diff := cmp.Diff(expected, record.Map()); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}
	_, ok := record.Get(MailingLocationKey)
	require.False(t, ok)
}

func TestAggregatorSplitsPropertyLocation(t *testing.T) {
	agg := NewAggregator()
	record := agg.Add(
		"",
		fieldsOf("Property_Address", "123 Main St", PropertyLocationKey, "NoCommaHere"),
		nil,
		nil,
	)

	require.Equal(t, []string{
		StatusKey,
		"Property_Address",
		"Property_City",
		"Property_State",
		"Property_ZIP",
	}, record.Keys())
	city, _ := record.Get("Property_City")
	require.Equal(t, "", city)
}

func TestAggregatorMergeOrder(t *testing.T) {
	agg := NewAggregator()
	record := agg.Add(
		"CLOSED",
		fieldsOf("Name", "decedent", "Date of Death", "01/02/2024"),
		fieldsOf("Name", "fiduciary"),
		fieldsOf("Case Number", "2024 ES 00012"),
	)

	require.Equal(t, []string{StatusKey, "Name", "Date of Death", "Case Number"}, record.Keys())
	name, _ := record.Get("Name")
	require.Equal(t, "fiduciary", name)
}

func TestResultSetHeterogeneousKeys(t *testing.T) {
	agg := NewAggregator()
	agg.Add("OPEN", fieldsOf("Name", "A", "Phone", "555"), nil, nil)
	agg.Add("CLOSED", fieldsOf("Name", "B"), fieldsOf("Relation", "Son"), nil)

	result := agg.Result()
	require.Equal(t, 2, result.Len())
	require.Equal(t, []string{StatusKey, "Name", "Phone", "Relation"}, result.Columns())
	require.Equal(t, [][]string{
		{"OPEN", "A", "555", ""},
		{"CLOSED", "B", "", "Son"},
	}, result.Rows())

	var buff bytes.Buffer
	err := result.WriteCSV(&buff)
	require.NoError(t, err)
	require.Equal(t, "case_status,Name,Phone,Relation\nOPEN,A,555,\nCLOSED,B,,Son\n", buff.String())
}

func TestResultSetEmpty(t *testing.T) {
	result := NewAggregator().Result()
	require.Equal(t, 0, result.Len())
	require.Empty(t, result.Columns())
	require.Empty(t, result.Rows())
}

func TestResultIsSnapshot(t *testing.T) {
	agg := NewAggregator()
	agg.Add("OPEN", nil, nil, nil)
	result := agg.Result()
	agg.Add("CLOSED", nil, nil, nil)

	require.Equal(t, 1, result.Len())
	require.Equal(t, 2, agg.Result().Len())
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "probate_records_20240108.csv", Filename(date))
}
