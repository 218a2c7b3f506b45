package fetcher

import (
	"errors"
	"testing"

	"highwatch/internal/config"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func symbols(records []gjson.Result) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Get("symbol").String()
	}
	return out
}

func TestExtractRecordsConventionalShapes(t *testing.T) {
	list := `[{"symbol":"INFY"},{"symbol":"TCS"},{"symbol":"WIPRO"}]`
	expected := []string{"INFY", "TCS", "WIPRO"}

	cases := []struct {
		payload string
		key     string
	}{
		{payload: list, key: ""},
		{payload: `{"data":` + list + `}`, key: "data"},
		{payload: `{"result":` + list + `}`, key: "result"},
		{payload: `{"rows":` + list + `}`, key: "rows"},
		{payload: `{"items":` + list + `}`, key: "items"},
		{payload: `{"records":` + list + `}`, key: "records"},
		{payload: `{"timestamp":"17-Oct-2026","data":` + list + `,"count":3}`, key: "data"},
	}

	for _, test := range cases {
		extraction, err := ExtractRecords([]byte(test.payload), config.DefaultRecordKeys)
		require.NoError(t, err, test.payload)
		require.Equal(t, expected, symbols(extraction.Records), test.payload)
		require.Equal(t, test.key, extraction.Key)
		require.False(t, extraction.Fallback)
	}
}

func TestExtractRecordsPriority(t *testing.T) {
	payload := `{"items":[{"symbol":"B"}],"data":[{"symbol":"A"}]}`
	extraction, err := ExtractRecords([]byte(payload), config.DefaultRecordKeys)
	require.NoError(t, err)
	require.Equal(t, "data", extraction.Key)
	require.Equal(t, []string{"A"}, symbols(extraction.Records))

	// a priority key holding something other than a list is passed over
	payload = `{"data":{"symbol":"X"},"rows":[{"symbol":"R"}]}`
	extraction, err = ExtractRecords([]byte(payload), config.DefaultRecordKeys)
	require.NoError(t, err)
	require.Equal(t, "rows", extraction.Key)

	// custom keys take over the defaults
	payload = `{"data":[{"symbol":"D"}],"highs":[{"symbol":"H"}]}`
	extraction, err = ExtractRecords([]byte(payload), []string{"highs"})
	require.NoError(t, err)
	require.Equal(t, "highs", extraction.Key)
	require.False(t, extraction.Fallback)
}

func TestExtractRecordsFallbackUsesDocumentOrder(t *testing.T) {
	payload := `{"meta":{"page":1},"zeta":[{"symbol":"Z"}],"alpha":[{"symbol":"A"}]}`
	extraction, err := ExtractRecords([]byte(payload), config.DefaultRecordKeys)
	require.NoError(t, err)
	require.True(t, extraction.Fallback)
	require.Equal(t, "zeta", extraction.Key)
	require.Equal(t, []string{"Z"}, symbols(extraction.Records))
}

func TestExtractRecordsNoList(t *testing.T) {
	_, err := ExtractRecords([]byte(`{"status":"ok","data":{"a":1},"message":"closed"}`), config.DefaultRecordKeys)

	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, []string{"status", "data", "message"}, shapeErr.Keys)
	require.Contains(t, err.Error(), "status")
	require.Contains(t, err.Error(), "data")
	require.Contains(t, err.Error(), "message")

	_, err = ExtractRecords([]byte(`42`), config.DefaultRecordKeys)
	require.True(t, errors.As(err, &shapeErr))
	require.Contains(t, err.Error(), "number")
}

func TestExtractRecordsInvalidJSON(t *testing.T) {
	for _, payload := range []string{"", "<html></html>", `{"data": [`} {
		_, err := ExtractRecords([]byte(payload), config.DefaultRecordKeys)
		require.ErrorIs(t, err, ErrInvalidJSON, payload)
	}
}

func TestExtractRecordsEmptyList(t *testing.T) {
	extraction, err := ExtractRecords([]byte(`{"data":[]}`), config.DefaultRecordKeys)
	require.NoError(t, err)
	require.Empty(t, extraction.Records)
	require.Equal(t, "data", extraction.Key)
}
