package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hr-predictor/internal/config"
	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/models"
)

const statcastHeader = "pitch_type,game_date,player_name,batter,pitcher,events,launch_speed,launch_angle,launch_speed_angle\n"

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.CircuitBreakerMax = 2
	cfg.CircuitCooldown = time.Hour
	return NewRateLimitedHTTPClient(cfg, logger.Discard())
}

func day(s string) time.Time {
	d, err := models.ParseGameDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseStatcastCSV(t *testing.T) {
	body := "\ufeff" + statcastHeader +
		"FF,2024-04-01,\"Judge, Aaron\",592450,543037,home_run,108.2,27,6\n" +
		"SL,2024-04-01,\"Judge, Aaron\",592450,543037,,,,\n" +
		"CH,2024-04-02,\"Soto, Juan\",665742,543037,field_out,88.0,10,2\n" +
		"CH,2024-04-02,bad,notanid,543037,field_out,88.0,10,2\n"

	set, err := ParseStatcastCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, set.Records, 3)

	first := set.Records[0]
	assert.Equal(t, models.PlayerID(592450), first.BatterID)
	assert.Equal(t, models.PlayerID(543037), first.PitcherID)
	assert.Equal(t, "Judge, Aaron", first.BatterName)
	assert.True(t, first.IsHomeRun())
	require.NotNil(t, first.ExitVelocity)
	assert.InDelta(t, 108.2, *first.ExitVelocity, 1e-9)
	require.NotNil(t, first.LaunchSpeedAngle)
	assert.Equal(t, 6, *first.LaunchSpeedAngle)
	assert.Equal(t, day("2024-04-01"), first.GameDate)

	second := set.Records[1]
	assert.Nil(t, second.ExitVelocity)
	assert.Nil(t, second.LaunchAngle)
	assert.Empty(t, second.Outcome)

	assert.True(t, set.HasColumn(models.ColumnLaunchSpeedAngle))
	assert.True(t, set.HasColumn(models.ColumnGameDate))
	assert.False(t, set.HasColumn(models.ColumnBarrel))
	assert.False(t, set.HasColumn(models.ColumnPitcherName))
}

func TestParseStatcastCSVEmpty(t *testing.T) {
	set, err := ParseStatcastCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	set, err = ParseStatcastCSV(strings.NewReader(statcastHeader))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.True(t, set.HasColumn(models.ColumnBatter))
}

func TestParseStatcastCSVBarrelColumn(t *testing.T) {
	body := "game_date,batter,pitcher,events,barrel\n" +
		"2024-04-01,1,2,home_run,1\n" +
		"2024-04-01,1,2,single,0\n"

	set, err := ParseStatcastCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	require.NotNil(t, set.Records[0].Barrel)
	assert.True(t, *set.Records[0].Barrel)
	assert.False(t, *set.Records[1].Barrel)
	assert.False(t, set.HasColumn(models.ColumnLaunchSpeed))
}

func TestStatcastClientChunksRange(t *testing.T) {
	var mu sync.Mutex
	var ranges []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, statcastSearchPath, r.URL.Path)
		gt, lt := r.URL.Query().Get("game_date_gt"), r.URL.Query().Get("game_date_lt")
		mu.Lock()
		ranges = append(ranges, gt+".."+lt)
		mu.Unlock()
		fmt.Fprint(w, statcastHeader)
		fmt.Fprintf(w, "FF,%s,Batter,1,2,home_run,100,25,6\n", gt)
	}))
	defer srv.Close()

	client := NewStatcastClient(testHTTPClient(), srv.URL, 3, nil)
	set, err := client.FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-07"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"2024-04-01..2024-04-03", "2024-04-04..2024-04-06", "2024-04-07..2024-04-07"}, ranges)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.HasColumn(models.ColumnLaunchSpeed))
}

func TestStatcastClientRejectsTruncatedChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, statcastHeader)
		fmt.Fprint(w, "FF,2024-04-01,Batter,1,2,home_run,100,25,6\n")
		fmt.Fprint(w, "FF,2024-04-01,Batter,1,2,field_out,90,10,2\n")
	}))
	defer srv.Close()

	client := NewStatcastClient(testHTTPClient(), srv.URL, 1, nil)
	client.rowLimit = 2
	_, err := client.FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-01"))
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
	assert.Contains(t, dsErr.Message, "result truncated")

	client.rowLimit = 3
	set, err := client.FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-01"))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestNewStatcastClientDefaultsToDailyChunks(t *testing.T) {
	client := NewStatcastClient(testHTTPClient(), "http://unused", 0, nil)
	assert.Equal(t, 1, client.chunkDays)
	assert.Equal(t, StatcastRowLimit, client.rowLimit)
}

func TestStatcastClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewStatcastClient(testHTTPClient(), srv.URL, 7, nil)
	_, err := client.FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-01"))
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeServerError, dsErr.Code)
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestStatcastClientRejectsInvertedRange(t *testing.T) {
	client := NewStatcastClient(testHTTPClient(), "http://unused", 7, nil)
	_, err := client.FetchEvents(context.Background(), day("2024-04-02"), day("2024-04-01"))
	assert.Error(t, err)
}

const scheduleJSON = `{"dates":[{"date":"2024-04-01","games":[{"gamePk":745001,"teams":{
 "away":{"team":{"id":147,"name":"New York Yankees"},"probablePitcher":{"id":100,"fullName":"Away Starter"}},
 "home":{"team":{"id":111,"name":"Boston Red Sox"},"probablePitcher":{"id":200,"fullName":"Home Starter"}}}}]}]}`

const boxscoreJSON = `{"teams":{
 "away":{"battingOrder":[1,2],"pitchers":[100],"players":{
   "ID1":{"person":{"id":1,"fullName":"Away One"},"position":{"abbreviation":"CF"}},
   "ID2":{"person":{"id":2,"fullName":"Away Two"},"position":{"abbreviation":"RF"}},
   "ID100":{"person":{"id":100,"fullName":"Away Starter"},"position":{"abbreviation":"P"}}}},
 "home":{"battingOrder":[3],"pitchers":[201],"players":{
   "ID3":{"person":{"id":3,"fullName":"Home One"},"position":{"abbreviation":"SS"}},
   "ID201":{"person":{"id":201,"fullName":"Home Opener"},"position":{"abbreviation":"P"}}}}}}`

func TestStatsAPIClientAttachesOpposingPitcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/schedule":
			assert.Equal(t, "2024-04-01", r.URL.Query().Get("date"))
			assert.Equal(t, "probablePitcher", r.URL.Query().Get("hydrate"))
			fmt.Fprint(w, scheduleJSON)
		case "/api/v1/game/745001/boxscore":
			fmt.Fprint(w, boxscoreJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewStatsAPIClient(testHTTPClient(), srv.URL, 1, nil)
	entries, err := client.FetchLineups(context.Background(), day("2024-04-01"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	away := entries[0]
	assert.Equal(t, models.SideAway, away.Side)
	assert.Equal(t, "New York Yankees", away.Team)
	assert.Equal(t, models.PlayerID(1), away.BatterID)
	assert.Equal(t, "Away One", away.BatterName)
	assert.Equal(t, "CF", away.Position)
	require.NotNil(t, away.BattingOrder)
	assert.Equal(t, 1, *away.BattingOrder)
	require.NotNil(t, away.ConfirmedPitcherID)
	assert.Equal(t, models.PlayerID(201), *away.ConfirmedPitcherID)
	assert.Equal(t, "Home Opener", away.ConfirmedPitcherName)
	require.NotNil(t, away.ProbablePitcherID)
	assert.Equal(t, models.PlayerID(200), *away.ProbablePitcherID)
	assert.False(t, away.IsConfirmed)

	home := entries[2]
	assert.Equal(t, models.SideHome, home.Side)
	assert.Equal(t, models.PlayerID(100), *home.ConfirmedPitcherID)
	assert.Equal(t, models.PlayerID(100), *home.ProbablePitcherID)
	assert.True(t, home.IsConfirmed)
}

func TestStatsAPIClientMissingBoxscore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/schedule" {
			fmt.Fprint(w, scheduleJSON)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewStatsAPIClient(testHTTPClient(), srv.URL, 1, nil)
	entries, err := client.FetchLineups(context.Background(), day("2024-04-01"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatsAPIClientNoGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"dates":[]}`)
	}))
	defer srv.Close()

	client := NewStatsAPIClient(testHTTPClient(), srv.URL, 1, nil)
	entries, err := client.FetchLineups(context.Background(), day("2024-12-25"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatsAPIClientInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"dates":`)
	}))
	defer srv.Close()

	client := NewStatsAPIClient(testHTTPClient(), srv.URL, 1, nil)
	_, err := client.FetchLineups(context.Background(), day("2024-04-01"))

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestCircuitBreakerOpensAfterConsecutiveErrors(t *testing.T) {
	client := testHTTPClient()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, "http://127.0.0.1:1/unreachable")
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(ctx, "http://127.0.0.1:1/unreachable")
	assert.True(t, errors.Is(err, ErrCircuitOpen))
}

func TestRateLimitedClientSetsUserAgent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "hr-predictor/1.0", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	resp, err := testHTTPClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRateLimitedResponsesMapToRateLimitCode(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 1
	cfg.RateLimit = 1000
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.CircuitBreakerMax = 10
	httpClient := NewRateLimitedHTTPClient(cfg, logger.Discard())

	tests := []struct {
		name  string
		fetch func() error
	}{
		{"statcast", func() error {
			_, err := NewStatcastClient(httpClient, srv.URL, 1, nil).FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-01"))
			return err
		}},
		{"stats api", func() error {
			_, err := NewStatsAPIClient(httpClient, srv.URL, 1, nil).FetchLineups(context.Background(), day("2024-04-01"))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			attempts = 0
			mu.Unlock()

			err := tt.fetch()
			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, ErrCodeRateLimitExceeded, dsErr.Code)

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 2, attempts, "429 is retried before giving up")
		})
	}
}

func TestExhaustedRetriesCountTowardsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := testHTTPClient()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		resp.Body.Close()
	}
	assert.True(t, client.IsOpen())
}

func TestDataSourceErrorFormatting(t *testing.T) {
	base := errors.New("dial tcp")
	err := NewDataSourceError("statcast", ErrCodeNetworkError, "request failed", base)

	assert.Equal(t, "statcast: network_error: request failed (dial tcp)", err.Error())
	assert.True(t, errors.Is(err, base))
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestFactoryDisabledSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.HTTPClient = config.HTTPClientConfig{TimeoutSeconds: 1, RetryWaitMinMillis: 1, RetryWaitMaxMillis: 1, RateLimit: 1, CircuitBreakerMax: 1}

	f := NewFactory(cfg, logger.Discard())
	defer f.Close()

	events := f.NewEventSource()
	_, err := events.FetchEvents(context.Background(), day("2024-04-01"), day("2024-04-01"))
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	assert.Equal(t, StatcastSourceName, events.Name())

	lineups := f.NewLineupSource()
	_, err = lineups.FetchLineups(context.Background(), day("2024-04-01"))
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestFactoryEnabledSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources.Statcast = config.StatcastSourceConfig{Enabled: true, BaseURL: "https://baseballsavant.mlb.com", ChunkDays: 5}
	cfg.Sources.StatsAPI = config.StatsAPISourceConfig{Enabled: true, BaseURL: "https://statsapi.mlb.com", SportID: 1}

	f := NewFactory(cfg, logger.Discard())
	_, ok := f.NewEventSource().(*StatcastClient)
	assert.True(t, ok)
	_, ok = f.NewLineupSource().(*StatsAPIClient)
	assert.True(t, ok)
}
