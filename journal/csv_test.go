package journal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rustyeddy/tradelog/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "No.,Result,Trade Amount,Return,Current Balance\n", buf.String())
}

func TestWriteCSVRows(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{SequenceNumber: 3, TradeAmount: 40, CurrentBalance: 952},
		{SequenceNumber: 1, Result: risk.Win, TradeAmount: 20, ReturnAmount: 18.4, CurrentBalance: 1018.4},
		{SequenceNumber: 2, Result: risk.Loss, TradeAmount: 20.005, ReturnAmount: -20.005, CurrentBalance: 998.395},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, trades))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "No.,Result,Trade Amount,Return,Current Balance", lines[0])
	assert.Equal(t, "1,WIN,20.00,18.40,1018.40", lines[1])
	assert.Equal(t, "2,LOSS,20.01,-20.01,998.40", lines[2])
	assert.Equal(t, "3,,40.00,0.00,952.00", lines[3])

	// input slice untouched
	assert.Equal(t, 3, trades[0].SequenceNumber)
}
