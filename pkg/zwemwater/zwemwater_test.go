package zwemwater

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

const spotFixture = `
<div class="map-content">
	<h2>Rijnhaven stadsstrand</h2>
	<ul class="spot-info text-sm">
		<li><span>Adres:</span> Posthumalaan 1, Rotterdam</li>
		<li><span>Controle:</span> Gecontroleerd door Rijnmond</li>
	</ul>
	<p>Stadsstrand aan de Rijnhaven met een  afgebakende zwemzone.</p>
	<p>Zwemmen buiten de boeien is niet toegestaan.</p>
	<ul class="features grid">
		<li><button><span class="border-b">Toiletten</span></button></li>
		<li><button><span class="border-b">Strand</span></button></li>
	</ul>
	<h4>Waterkwaliteit</h4>
	<h4>Blauwalg</h4>
</div>
`

func newTestClient(url string) *Client {
	client := NewClient(time.Second, prometheus.NewMonitor(), logrus.New())
	client.baseURL = url

	return client
}

func TestParseSpot(t *testing.T) {
	spot := parseSpot([]byte(spotFixture))

	assert.Equal(t, "Rijnhaven stadsstrand", spot.Place)
	assert.Equal(t, map[string]string{
		"Adres":    "Posthumalaan 1, Rotterdam",
		"Controle": "Gecontroleerd door Rijnmond",
	}, spot.GeneralInfo)
	assert.Equal(t, "Stadsstrand aan de Rijnhaven met een afgebakende zwemzone.\nZwemmen buiten de boeien is niet toegestaan.", spot.Description)
	assert.Equal(t, []string{"Toiletten", "Strand"}, spot.Facilities)
	assert.Equal(t, []string{"Waterkwaliteit", "Blauwalg"}, spot.ChartTitles)
	assert.Empty(t, spot.Error)
}

func TestParseSpotWithoutHeading(t *testing.T) {
	spot := parseSpot([]byte(`<div><p>Geen gegevens beschikbaar.</p></div>`))

	assert.Equal(t, "Unknown", spot.Place)
	assert.Empty(t, spot.GeneralInfo)
	assert.Equal(t, "Geen gegevens beschikbaar.", spot.Description)
	assert.Empty(t, spot.Facilities)
	assert.Empty(t, spot.ChartTitles)
}

func TestGetSpot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "22003", r.URL.Query().Get("spotid"))
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		assert.Equal(t, "https://www.zwemwater.nl/", r.Header.Get("Referer"))

		_, _ = w.Write([]byte(spotFixture))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	spot, err := client.GetSpot(context.Background(), "22003")
	require.NoError(t, err)
	assert.Equal(t, "Rijnhaven stadsstrand", spot.Place)
	assert.Len(t, spot.Facilities, 2)
}

func TestGetSpotStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetSpot(context.Background(), "22003")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}
