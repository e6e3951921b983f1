package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/market"
)

func TestHistoryKeepsMostRecent(t *testing.T) {
	h := NewHistory(HistorySize)

	for i := 0; i < 150; i++ {
		h.Record(int64(i*2), []market.Update{
			{Symbol: "MEGA", Price: float64(i), TickVolume: int64(i)},
		})
	}

	points := h.Points("MEGA")
	require.Len(t, points, HistorySize)
	assert.Equal(t, 50.0, points[0].Price)
	assert.Equal(t, 149.0, points[len(points)-1].Price)
	assert.Equal(t, int64(298), points[len(points)-1].Time)

	assert.Nil(t, h.Points("BYTE"))
}
