package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/hr-predictor/internal/logger"
	"github.com/yourusername/hr-predictor/internal/models"
)

// StatsAPISourceName identifies the MLB Stats API lineup feed
const StatsAPISourceName = "stats_api"

const boxscoreConcurrency = 4

// StatsAPIClient implements LineupSource against the MLB Stats API
type StatsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	sportID    int
	validator  *LineupValidator
	logger     *logger.SourceLogger
}

type scheduleResponse struct {
	Dates []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk int64 `json:"gamePk"`
	Teams  struct {
		Away scheduleTeam `json:"away"`
		Home scheduleTeam `json:"home"`
	} `json:"teams"`
}

type scheduleTeam struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher *apiPerson `json:"probablePitcher"`
}

type apiPerson struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type boxscoreResponse struct {
	Teams struct {
		Away boxscoreTeam `json:"away"`
		Home boxscoreTeam `json:"home"`
	} `json:"teams"`
}

type boxscoreTeam struct {
	BattingOrder []int64                   `json:"battingOrder"`
	Pitchers     []int64                   `json:"pitchers"`
	Players      map[string]boxscorePlayer `json:"players"`
}

type boxscorePlayer struct {
	Person   apiPerson `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

// NewStatsAPIClient creates a new MLB Stats API client
func NewStatsAPIClient(httpClient *RateLimitedHTTPClient, baseURL string, sportID int, log *logger.SourceLogger) *StatsAPIClient {
	if sportID <= 0 {
		sportID = 1
	}
	return &StatsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sportID:    sportID,
		validator:  NewLineupValidator(),
		logger:     log,
	}
}

// Name returns the name of the data source
func (c *StatsAPIClient) Name() string {
	return StatsAPISourceName
}

// FetchLineups returns the posted batting orders for every game on date.
// Each entry carries the opposing team's starter: the first pitcher listed
// in the opponent's boxscore (confirmed) and the opponent's probable pitcher.
func (c *StatsAPIClient) FetchLineups(ctx context.Context, date time.Time) ([]models.LineupEntry, error) {
	began := time.Now()
	day := models.TruncateDate(date)

	var sched scheduleResponse
	q := url.Values{}
	q.Set("sportId", strconv.Itoa(c.sportID))
	q.Set("date", models.FormatDate(day))
	q.Set("hydrate", "probablePitcher")
	if err := c.getJSON(ctx, c.baseURL+"/api/v1/schedule?"+q.Encode(), &sched); err != nil {
		return nil, err
	}

	var games []scheduleGame
	for _, d := range sched.Dates {
		games = append(games, d.Games...)
	}

	perGame := make([][]models.LineupEntry, len(games))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(boxscoreConcurrency)
	for i := range games {
		i := i
		g.Go(func() error {
			var box boxscoreResponse
			path := fmt.Sprintf("%s/api/v1/game/%d/boxscore", c.baseURL, games[i].GamePk)
			err := c.getJSON(gctx, path, &box)
			var dsErr DataSourceError
			if errors.As(err, &dsErr) && dsErr.Code == ErrCodeNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			perGame[i] = buildLineupEntries(games[i], &box)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []models.LineupEntry
	for _, e := range perGame {
		entries = append(entries, e...)
	}

	entries, rejected := c.validator.Filter(entries)
	if c.logger != nil {
		for slot, problems := range rejected {
			c.logger.LogRejectedRecord(StatsAPISourceName, slot, problems)
		}
	}

	if c.logger != nil {
		c.logger.LogFetch(StatsAPISourceName, day, day, len(entries), time.Since(began))
	}
	return entries, nil
}

func buildLineupEntries(game scheduleGame, box *boxscoreResponse) []models.LineupEntry {
	sides := []struct {
		side     string
		team     scheduleTeam
		own      *boxscoreTeam
		opponent *boxscoreTeam
		probable *apiPerson
	}{
		{models.SideAway, game.Teams.Away, &box.Teams.Away, &box.Teams.Home, game.Teams.Home.ProbablePitcher},
		{models.SideHome, game.Teams.Home, &box.Teams.Home, &box.Teams.Away, game.Teams.Away.ProbablePitcher},
	}

	var entries []models.LineupEntry
	for _, s := range sides {
		var confirmedID *models.PlayerID
		var confirmedName string
		if len(s.opponent.Pitchers) > 0 {
			id := models.PlayerID(s.opponent.Pitchers[0])
			confirmedID = &id
			confirmedName = s.opponent.Players[playerKey(s.opponent.Pitchers[0])].Person.FullName
		}

		var probableID *models.PlayerID
		var probableName string
		if s.probable != nil && s.probable.ID > 0 {
			id := models.PlayerID(s.probable.ID)
			probableID = &id
			probableName = s.probable.FullName
		}

		for i, batterID := range s.own.BattingOrder {
			player := s.own.Players[playerKey(batterID)]
			order := i + 1
			entry := models.LineupEntry{
				GameID:               game.GamePk,
				Team:                 s.team.Team.Name,
				Side:                 s.side,
				BattingOrder:         &order,
				BatterID:             models.PlayerID(batterID),
				BatterName:           player.Person.FullName,
				Position:             player.Position.Abbreviation,
				ConfirmedPitcherID:   confirmedID,
				ConfirmedPitcherName: confirmedName,
				ProbablePitcherID:    probableID,
				ProbablePitcherName:  probableName,
			}
			entry.IsConfirmed = entry.ComputeConfirmed()
			entries = append(entries, entry)
		}
	}
	return entries
}

func playerKey(id int64) string {
	return "ID" + strconv.FormatInt(id, 10)
}

func (c *StatsAPIClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return NewDataSourceError(StatsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		code := ErrCodeNetworkError
		if errors.Is(err, ErrCircuitOpen) {
			code = ErrCodeCircuitOpen
		}
		return NewDataSourceError(StatsAPISourceName, code, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(StatsAPISourceName, ErrCodeNotFound, rawURL, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(StatsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(StatsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(StatsAPISourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
