package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/wagebook/internal/domain/models"
)

func TestXLSXWorker(t *testing.T) {
	worker := testWorker(day("2025-01-03", 2, "overtime"), day("2025-01-09", 1, ""), day("2025-01-05", 0, ""))
	doc := NewDocument(testCompany(), worker, models.ReportOptions{IncludeNotes: true}, nil, fixedNow)

	out, err := NewXLSX(testSettings()).Worker(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, historySheet}, f.GetSheetList())

	worker2, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Asha Devi", worker2)
	days, err := f.GetCellValue(summarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "3", days)

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+1+1+2, "header, one row per item, one row for the empty day")
	assert.Equal(t, historyHeaders, rows[0])
	assert.Equal(t, "09 Jan 2025", rows[1][0])
	assert.Equal(t, "05 Jan 2025", rows[2][0])
	assert.Equal(t, "03 Jan 2025", rows[3][0])
	assert.Equal(t, "Shirt collar 2", rows[4][1])
	assert.Equal(t, "overtime", rows[4][6])

	headerStyle, err := f.GetCellStyle(historySheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(headerStyle)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	amountStyle, err := f.GetCellStyle(historySheet, "E2")
	require.NoError(t, err)
	style, err = f.GetStyle(amountStyle)
	require.NoError(t, err)
	assert.Equal(t, 2, style.NumFmt)
}
