package waterinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailFixture = `{
	"latest": {"label": "Waterhoogte", "data": 45, "unit": "cm", "dateTime": "2025-06-15T10:20:00Z"},
	"related": [
		{"label": "Windsnelheid in m/s", "data": 5.4, "unit": "m/s"},
		{"label": "Watertemperatuur in graden celsius", "data": 18.3, "unit": "°C"}
	]
}`

const messagesFixture = `{
	"messages": [
		{"title": "Zwemverbod Maas", "bannerText": "Blauwalg aangetroffen."},
		{"title": "Hoogwater", "bannerText": "Verhoogde afvoer verwacht."}
	]
}`

func newTestClient(url string) *Client {
	client := NewClient(time.Second, prometheus.NewMonitor(), logrus.New())
	client.baseURL = url
	return client
}

func TestGetDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/detail/get", r.URL.Path)
		assert.Equal(t, "Rotterdam(ROTT)", r.URL.Query().Get("locationSlug"))
		assert.Equal(t, "Waterhoogte", r.URL.Query().Get("expertParameter"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "https://waterinfo.rws.nl/", r.Header.Get("Referer"))

		_, _ = w.Write([]byte(detailFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	detail, err := client.GetDetail(context.Background(), "Rotterdam(ROTT)", "Waterhoogte")
	require.NoError(t, err)

	require.NotNil(t, detail.WaterLevel())
	assert.Equal(t, 45.0, *detail.WaterLevel())

	wind := detail.RelatedReading(LabelWindSpeed)
	require.NotNil(t, wind)
	require.NotNil(t, wind.Data)
	assert.Equal(t, 5.4, *wind.Data)
	assert.Equal(t, "m/s", wind.Unit)

	temp := detail.RelatedReading(LabelWaterTemperature)
	require.NotNil(t, temp)
	assert.Equal(t, 18.3, *temp.Data)

	at, ok := detail.MeasuredAt()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 20, 0, 0, time.UTC), at.UTC())
}

func TestGetDetailMissingValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"latest": {"label": "Waterhoogte"}, "related": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	detail, err := client.GetDetail(context.Background(), "Rotterdam(ROTT)", "Waterhoogte")
	require.NoError(t, err)

	assert.Nil(t, detail.WaterLevel())
	assert.Nil(t, detail.RelatedReading(LabelWindSpeed))

	_, ok := detail.MeasuredAt()
	assert.False(t, ok)
}

func TestGetDetailStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetDetail(context.Background(), "Rotterdam(ROTT)", "Waterhoogte")
	assert.ErrorContains(t, err, "unexpected status code")
}

func TestGetMessages(t *testing.T) {
	identifiers := []string{
		"86b36486-c6d7-4897-9416-f3d2852a1287",
		"a87e691e-aab9-4993-b7db-0b7f3b73dbcd",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/watermessage/getall", r.URL.Path)
		assert.Equal(t, identifiers, r.URL.Query()["identifiers"])

		_, _ = w.Write([]byte(messagesFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	messages, err := client.GetMessages(context.Background(), identifiers)
	require.NoError(t, err)

	require.Len(t, messages, 2)
	assert.Equal(t, "Zwemverbod Maas", messages[0].Title)
	assert.Equal(t, "Blauwalg aangetroffen.", messages[0].BannerText)
	assert.Equal(t, "Hoogwater", messages[1].Title)
}

func TestGetMessagesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"messages": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	messages, err := client.GetMessages(context.Background(), []string{"86b36486"})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMeasuredAtDutchFormat(t *testing.T) {
	tests := []struct {
		dateTime string
		utc      time.Time
	}{
		{"15-06-2025 10:20", time.Date(2025, 6, 15, 8, 20, 0, 0, time.UTC)}, // CEST
		{"15-01-2025 10:20", time.Date(2025, 1, 15, 9, 20, 0, 0, time.UTC)}, // CET
	}

	for _, test := range tests {
		detail := Detail{Latest: Reading{DateTime: test.dateTime}}

		at, ok := detail.MeasuredAt()
		require.True(t, ok)
		assert.Equal(t, test.utc, at.UTC())
	}
}
