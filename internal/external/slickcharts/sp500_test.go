package slickcharts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageFixture = `
<html><body>
<table class="table">
  <thead><tr><th>#</th><th>Company</th><th>Symbol</th><th>Weight</th></tr></thead>
  <tbody>
    <tr><td>1</td><td>Nvidia</td><td>NVDA</td><td>7.8%</td></tr>
    <tr><td>2</td><td>Microsoft</td><td>MSFT</td><td>6.9%</td></tr>
    <tr><td>3</td><td>Apple</td><td> AAPL </td><td>5.9%</td></tr>
    <tr><td>4</td><td>Nvidia dup</td><td>NVDA</td><td>0.0%</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseConstituents(t *testing.T) {
	records, err := parseConstituents(pageFixture)
	require.NoError(t, err)

	require.Len(t, records, 3, "duplicate rows must be dropped")
	assert.Equal(t, "NVDA", records[0].Symbol)
	assert.Equal(t, "Microsoft", records[1].Name)
	assert.Equal(t, "AAPL", records[2].Symbol, "symbols must be trimmed")
}

func TestParseConstituents_EmptyPage(t *testing.T) {
	_, err := parseConstituents("<html><body><p>maintenance</p></body></html>")
	require.Error(t, err)
}
