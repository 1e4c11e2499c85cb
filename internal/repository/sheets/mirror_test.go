package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/domain/models"
)

func sampleDay() models.DailyWork {
	day := models.DailyWork{
		Date:  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Notes: "rush order",
		Items: []models.WorkItem{
			{ItemName: "Collar", WageRate: 2.5, PiecesCompleted: 10},
			{ItemName: "Cuff", WageRate: 1.25, PiecesCompleted: 4},
		},
	}
	day.Recalculate()
	return day
}

func TestWorkLogRows(t *testing.T) {
	company := models.Company{CompanyName: "Sunrise Garments"}
	worker := models.Worker{Name: "Asha Devi", Phone: "9876543210"}

	rows := workLogRows(company, worker, sampleDay())
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"2025-03-14", "Sunrise Garments", "Asha Devi", "9876543210", "Collar", 10, 2.5, 25.0, 30.0, "rush order"}, rows[0])
	assert.Equal(t, "Cuff", rows[1][4])

	empty := workLogRows(company, worker, models.DailyWork{Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)})
	require.Len(t, empty, 1)
	assert.Equal(t, "2025-03-15", empty[0][0])
	assert.Equal(t, "", empty[0][4])
}

func TestAppendDailyWorkPostsRows(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotQuery  string
		gotBody   struct {
			Values [][]interface{} `json:"values"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	mirror, err := NewWorkLogMirror(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-1"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	err = mirror.AppendDailyWork(context.Background(), models.Company{CompanyName: "Sunrise Garments"}, models.Worker{Name: "Asha Devi"}, sampleDay())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.True(t, strings.Contains(gotPath, "/spreadsheets/sheet-1/values/"), gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, gotBody.Values, 2)
	assert.Equal(t, "Collar", gotBody.Values[0][4])
}

func TestAppendDailyWorkReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	mirror, err := NewWorkLogMirror(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-1"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	err = mirror.AppendDailyWork(context.Background(), models.Company{}, models.Worker{}, sampleDay())
	require.Error(t, err)
	assert.Contains(t, err.Error(), workLogRange)
}
