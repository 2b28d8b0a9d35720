package restyutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	require.Equal(t, "", formatHeaders(headers))

	headers.Add("X-B", "2")
	headers.Add("Content-Type", "application/json")
	headers.Add("X-B", "3")
	require.Equal(t, "Content-Type: application/json\nX-B: 2\nX-B: 3", formatHeaders(headers))
}

func TestRedact(t *testing.T) {
	body := `{"clientKey": "secret-key","task":{"type":"ImageToTextTask"}}`
	require.Equal(
		t,
		`{"clientKey": "<redacted>","task":{"type":"ImageToTextTask"}}`,
		redact(body),
	)
	require.Equal(t, `{"taskId":7}`, redact(`{"taskId":7}`))
}
