package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/models"
)

// StatcastSourceName identifies the Baseball Savant event feed
const StatcastSourceName = "statcast"

const (
	statcastSearchPath = "/statcast_search/csv"
	defaultChunkDays   = 1

	// StatcastRowLimit is the most rows Savant returns for one search. A
	// response of this size has been cut off.
	StatcastRowLimit = 25000
)

// StatcastClient implements EventSource against the Baseball Savant search export
type StatcastClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	chunkDays  int
	rowLimit   int
	logger     *logger.SourceLogger
}

// NewStatcastClient creates a new Statcast client
func NewStatcastClient(httpClient *RateLimitedHTTPClient, baseURL string, chunkDays int, log *logger.SourceLogger) *StatcastClient {
	if chunkDays <= 0 {
		chunkDays = defaultChunkDays
	}
	return &StatcastClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chunkDays:  chunkDays,
		rowLimit:   StatcastRowLimit,
		logger:     log,
	}
}

// Name returns the name of the data source
func (c *StatcastClient) Name() string {
	return StatcastSourceName
}

// FetchEvents downloads [start, end] in chunks of chunkDays and merges them
func (c *StatcastClient) FetchEvents(ctx context.Context, start, end time.Time) (*models.EventSet, error) {
	start, end = models.TruncateDate(start), models.TruncateDate(end)
	if end.Before(start) {
		return nil, NewDataSourceError(StatcastSourceName, ErrCodeInvalidData, "end date precedes start date", nil)
	}

	began := time.Now()
	result := models.NewEventSet(nil)
	for chunkStart := start; !chunkStart.After(end); chunkStart = chunkStart.AddDate(0, 0, c.chunkDays) {
		chunkEnd := chunkStart.AddDate(0, 0, c.chunkDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		chunk, err := c.fetchChunk(ctx, chunkStart, chunkEnd)
		if err != nil {
			return nil, err
		}
		result.Merge(chunk)
	}

	if c.logger != nil {
		c.logger.LogFetch(StatcastSourceName, start, end, result.Len(), time.Since(began))
	}
	return result, nil
}

func (c *StatcastClient) fetchChunk(ctx context.Context, start, end time.Time) (*models.EventSet, error) {
	resp, err := c.httpClient.Get(ctx, c.searchURL(start, end))
	if err != nil {
		code := ErrCodeNetworkError
		if errors.Is(err, ErrCircuitOpen) {
			code = ErrCodeCircuitOpen
		}
		return nil, NewDataSourceError(StatcastSourceName, code, "failed to fetch events", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(StatcastSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(StatcastSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	set, rows, err := parseStatcastCSV(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(StatcastSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	if rows >= c.rowLimit {
		return nil, NewDataSourceError(StatcastSourceName, ErrCodeInvalidData,
			fmt.Sprintf("result truncated: %d rows for %s..%s, reduce chunk_days", rows, models.FormatDate(start), models.FormatDate(end)), nil)
	}
	return set, nil
}

func (c *StatcastClient) searchURL(start, end time.Time) string {
	q := url.Values{}
	q.Set("all", "true")
	q.Set("type", "details")
	q.Set("player_type", "batter")
	q.Set("hfGT", "R|")
	q.Set("game_date_gt", models.FormatDate(start))
	q.Set("game_date_lt", models.FormatDate(end))
	return c.baseURL + statcastSearchPath + "?" + q.Encode()
}

// ParseStatcastCSV reads a Savant export. Columns are located by header name,
// so reordered or missing columns are tolerated; the returned set lists the
// known columns that were present. Rows with an unparseable batter or
// pitcher id are skipped.
func ParseStatcastCSV(r io.Reader) (*models.EventSet, error) {
	set, _, err := parseStatcastCSV(r)
	return set, err
}

// parseStatcastCSV also returns the number of data rows read, skipped rows
// included.
func parseStatcastCSV(r io.Reader) (*models.EventSet, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.NewEventSet(nil), 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[strings.Trim(name, `"`)] = i
	}

	set := models.NewEventSet(nil)
	for _, col := range knownStatcastColumns {
		if _, ok := idx[col]; ok {
			set.AddColumns(col)
		}
	}

	rows := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rows, fmt.Errorf("failed to read row: %w", err)
		}
		rows++

		rec, ok := parseStatcastRow(row, idx)
		if ok {
			set.Records = append(set.Records, rec)
		}
	}
	return set, rows, nil
}

var knownStatcastColumns = []string{
	models.ColumnGameDate,
	models.ColumnBatter,
	models.ColumnPitcher,
	models.ColumnPlayerName,
	models.ColumnPitcherName,
	models.ColumnEvents,
	models.ColumnLaunchSpeed,
	models.ColumnLaunchAngle,
	models.ColumnLaunchSpeedAngle,
	models.ColumnBarrel,
}

func parseStatcastRow(row []string, idx map[string]int) (models.EventRecord, bool) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		v := strings.TrimSpace(row[i])
		if v == "null" || v == "NA" {
			return ""
		}
		return v
	}

	var rec models.EventRecord
	batter, batterOK := parseID(field(models.ColumnBatter))
	pitcher, pitcherOK := parseID(field(models.ColumnPitcher))
	if _, has := idx[models.ColumnBatter]; has && !batterOK {
		return rec, false
	}
	if _, has := idx[models.ColumnPitcher]; has && !pitcherOK {
		return rec, false
	}

	rec.BatterID = batter
	rec.PitcherID = pitcher
	rec.BatterName = field(models.ColumnPlayerName)
	rec.PitcherName = field(models.ColumnPitcherName)
	rec.Outcome = field(models.ColumnEvents)
	if d, err := time.Parse(models.DateLayout, field(models.ColumnGameDate)); err == nil {
		rec.GameDate = d
	}
	rec.ExitVelocity = parseFloat(field(models.ColumnLaunchSpeed))
	rec.LaunchAngle = parseFloat(field(models.ColumnLaunchAngle))
	if v := field(models.ColumnLaunchSpeedAngle); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			n := int(f)
			rec.LaunchSpeedAngle = &n
		}
	}
	if v := field(models.ColumnBarrel); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			b := f != 0
			rec.Barrel = &b
		} else if b, err := strconv.ParseBool(v); err == nil {
			rec.Barrel = &b
		}
	}
	return rec, true
}

func parseID(s string) (models.PlayerID, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return models.PlayerID(f), true
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
