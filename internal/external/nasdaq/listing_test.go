package nasdaq

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphadesk/pkg/config"
	"github.com/wonny/alphadesk/pkg/httputil"
	"github.com/wonny/alphadesk/pkg/logger"
)

const nasdaqFixture = "Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares\r\n" +
	"AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N\r\n" +
	"QQQ|Invesco QQQ Trust|G|N|N|100|Y|N\r\n" +
	"ZAZZT|Tick Pilot Test Stock|Q|Y|N|100|N|N\r\n" +
	"File Creation Time: 0828202522:01|||||||\r\n"

const otherFixture = "ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol\r\n" +
	"BRK.B|Berkshire Hathaway Inc. Class B|N|BRK B|N|100|N|BRK=\r\n" +
	"SPY|SPDR S&P 500 ETF Trust|P|SPY|Y|100|N|SPY\r\n" +
	"File Creation Time: 0828202522:01|||||||\r\n"

func TestParseDirectory_Nasdaq(t *testing.T) {
	records := parseDirectory(nasdaqFixture, nasdaqLayout)

	require.Len(t, records, 3)
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.False(t, records[0].IsETF)
	assert.False(t, records[0].TestIssue)

	assert.Equal(t, "QQQ", records[1].Symbol)
	assert.True(t, records[1].IsETF)

	assert.Equal(t, "ZAZZT", records[2].Symbol)
	assert.True(t, records[2].TestIssue)
}

func TestParseDirectory_Other(t *testing.T) {
	records := parseDirectory(otherFixture, otherLayout)

	require.Len(t, records, 2)
	assert.Equal(t, "BRK.B", records[0].Symbol)
	assert.False(t, records[0].IsETF)
	assert.True(t, records[1].IsETF, "SPY must be flagged as an ETF")
}

func TestSymbols_MergesBothFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nasdaqlisted.txt":
			fmt.Fprint(w, nasdaqFixture)
		case "/otherlisted.txt":
			fmt.Fprint(w, otherFixture)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := &config.Config{
		Nasdaq: config.NasdaqConfig{
			ListedURL: server.URL + "/nasdaqlisted.txt",
			OtherURL:  server.URL + "/otherlisted.txt",
		},
	}
	log := logger.NewNop()
	listing := NewListing(cfg, httputil.New(cfg, log).DisableRetry(), log)

	records, err := listing.Symbols(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestSymbols_SourceFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{
		Nasdaq: config.NasdaqConfig{
			ListedURL: server.URL + "/nasdaqlisted.txt",
			OtherURL:  server.URL + "/otherlisted.txt",
		},
	}
	log := logger.NewNop()
	listing := NewListing(cfg, httputil.New(cfg, log).DisableRetry(), log)

	_, err := listing.Symbols(context.Background())
	require.Error(t, err)
}
