package transfermarkt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
)

const profileHTML = `<!doctype html>
<html><body>
<h1 class="data-header__headline-wrapper">
  <span class="data-header__shirt-number">#9</span>
  Erling  Haaland
</h1>
<ul class="info-table">
<li>Place of birth:
  <span>Leeds, England</span></li>
<li>Height:
  <span>1,95 m</span></li>
<li>Contract expires:
  <span>30/06/2034</span></li>
<li>Agent:
  <span>Rafaela Pimenta</span>
</li>
</ul>
</body></html>`

func newServer(t *testing.T, ceapiHits *atomic.Int32, pageStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/erling-haaland/profil/spieler/418560", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(pageStatus)
		_, _ = io.WriteString(w, profileHTML)
	})
	mux.HandleFunc("/ceapi/marketValueDevelopment/graph/418560", func(w http.ResponseWriter, r *http.Request) {
		ceapiHits.Add(1)
		_, _ = io.WriteString(w, `{"list":[{"y":180000000,"datum_mw":"Dec 2024"}]}`)
	})
	mux.HandleFunc("/ceapi/transferHistory/list/418560", func(w http.ResponseWriter, r *http.Request) {
		ceapiHits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/ceapi/player/418560/performance", func(w http.ResponseWriter, r *http.Request) {
		ceapiHits.Add(1)
		_, _ = io.WriteString(w, `not json`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Options{
		CEAPIBaseURL: srv.URL + "/ceapi",
		UserAgent:    "test-agent/1.0",
		Logger:       logging.NewNop(),
	})
}

func TestFetchPlayer_ParsesProfileAndDegradesCompanions(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newServer(t, &hits, http.StatusOK)
	client := newTestClient(srv)

	profile := client.FetchPlayer(context.Background(), srv.URL+"/erling-haaland/profil/spieler/418560")

	assert.Equal(t, "418560", profile.PlayerID)
	assert.Equal(t, "Erling Haaland", profile.PlayerName)
	assert.Equal(t, "9", profile.ShirtNumber)
	assert.Equal(t, "30/06/2034", profile.ContractExpiry)
	assert.Equal(t, "Leeds", profile.Birthplace)
	assert.Equal(t, "Rafaela Pimenta", profile.Agent)
	assert.Equal(t, "1,95 m", profile.Height)
	assert.Empty(t, profile.Reason)

	market, ok := profile.MarketValueHistory.(map[string]any)
	require.True(t, ok)
	assert.Len(t, market["list"], 1)
	assert.Equal(t, model.EmptyDocument(), profile.TransferHistory)
	assert.Equal(t, model.EmptyDocument(), profile.PerformanceData)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchPlayer_PageFailureSkipsCompanions(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := newServer(t, &hits, http.StatusNotFound)
	client := newTestClient(srv)

	profile := client.FetchPlayer(context.Background(), srv.URL+"/erling-haaland/profil/spieler/418560")

	assert.True(t, profile.IsEmpty())
	assert.Equal(t, "418560", profile.PlayerID)
	assert.Equal(t, model.NotAvailable, profile.ShirtNumber)
	assert.Equal(t, extract.ReasonPageFetchFailed, profile.Reason)
	assert.Equal(t, model.EmptyDocument(), profile.MarketValueHistory)
	assert.Equal(t, int32(0), hits.Load())
}

func TestParseProfile_MissingFieldsAreNotAvailable(t *testing.T) {
	t.Parallel()

	profile, err := parseProfile("1", []byte(`<html><body><p>Nothing to see</p></body></html>`))
	require.NoError(t, err)

	assert.Equal(t, model.NotAvailable, profile.PlayerName)
	assert.Equal(t, model.NotAvailable, profile.ShirtNumber)
	assert.Equal(t, model.NotAvailable, profile.ContractExpiry)
	assert.Equal(t, model.NotAvailable, profile.Birthplace)
	assert.Equal(t, model.NotAvailable, profile.Agent)
	assert.Equal(t, model.NotAvailable, profile.Height)
}

func TestPlayerIDFromURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "418560", PlayerIDFromURL("https://www.transfermarkt.us/erling-haaland/profil/spieler/418560"))
	assert.Equal(t, "418560", PlayerIDFromURL("https://www.transfermarkt.us/erling-haaland/profil/spieler/418560/?tab=1"))
	assert.Equal(t, "", PlayerIDFromURL("https://www.transfermarkt.us/"))
}
