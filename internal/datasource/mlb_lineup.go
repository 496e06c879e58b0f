package datasource

import (
	"context"
	"fmt"

	"github.com/yourusername/longball/internal/models"
)

// boxscoreResponse mirrors the live-feed boxscore subset we consume for
// lineups and outcomes.
type boxscoreResponse struct {
	Teams struct {
		Home boxscoreTeam `json:"home"`
		Away boxscoreTeam `json:"away"`
	} `json:"teams"`
}

type boxscoreTeam struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Batters  []int64                  `json:"batters"`
	Pitchers []int64                  `json:"pitchers"`
	Players  map[string]boxscorePlayer `json:"players"`
}

type boxscorePlayer struct {
	Person struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	BattingOrder string `json:"battingOrder"`
	BatSide      struct {
		Code string `json:"code"`
	} `json:"batSide"`
	PitchHand struct {
		Code string `json:"code"`
	} `json:"pitchHand"`
	Stats struct {
		Batting map[string]int `json:"batting"`
	} `json:"stats"`
}

// probablePitchersResponse mirrors the game feed's probable pitchers.
type probablePitchersResponse struct {
	GameData struct {
		ProbablePitchers struct {
			Home *probablePitcher `json:"home"`
			Away *probablePitcher `json:"away"`
		} `json:"probablePitchers"`
	} `json:"gameData"`
}

type probablePitcher struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

// FetchLineup retrieves starters for a game. Confirmed mode requires a
// populated batting order; probable mode additionally resolves probable
// pitchers from the game feed when the boxscore has none yet.
func (c *MLBStatsClient) FetchLineup(ctx context.Context, gameID string, mode LineupMode) (*Lineup, error) {
	url := fmt.Sprintf("%s/game/%s/boxscore", c.baseURL, gameID)

	var box boxscoreResponse
	if err := c.getJSON(ctx, url, &box); err != nil {
		return nil, err
	}

	lineup := &Lineup{
		GameID: gameID,
		Home:   lineupBatters(&box.Teams.Home),
		Away:   lineupBatters(&box.Teams.Away),
	}
	lineup.HomePitcher = startingPitcher(&box.Teams.Home)
	lineup.AwayPitcher = startingPitcher(&box.Teams.Away)
	lineup.Confirmed = len(lineup.Home) >= 9 && len(lineup.Away) >= 9

	if mode == ModeConfirmed {
		if !lineup.Confirmed {
			return nil, NewSourceError(mlbSourceName, ErrCodeNotFound,
				fmt.Sprintf("lineup not yet confirmed for game %s", gameID), nil)
		}
		return lineup, nil
	}

	// Probable mode tolerates a missing batting order but still needs
	// pitchers for the matchup factors.
	if lineup.HomePitcher == nil || lineup.AwayPitcher == nil {
		if err := c.fillProbablePitchers(ctx, gameID, lineup); err != nil {
			return nil, err
		}
	}
	if len(lineup.Home) == 0 || len(lineup.Away) == 0 {
		return nil, NewSourceError(mlbSourceName, ErrCodeNotFound,
			fmt.Sprintf("no projected batters for game %s", gameID), nil)
	}
	return lineup, nil
}

func (c *MLBStatsClient) fillProbablePitchers(ctx context.Context, gameID string, lineup *Lineup) error {
	url := fmt.Sprintf("%s/game/%s/feed/live?fields=gameData,probablePitchers", c.baseURL, gameID)

	var feed probablePitchersResponse
	if err := c.getJSON(ctx, url, &feed); err != nil {
		return err
	}

	if lineup.HomePitcher == nil {
		if p := feed.GameData.ProbablePitchers.Home; p != nil {
			lineup.HomePitcher = &models.Player{
				ID:   fmt.Sprintf("%d", p.ID),
				Name: p.FullName,
				Role: models.RolePitcher,
			}
		}
	}
	if lineup.AwayPitcher == nil {
		if p := feed.GameData.ProbablePitchers.Away; p != nil {
			lineup.AwayPitcher = &models.Player{
				ID:   fmt.Sprintf("%d", p.ID),
				Name: p.FullName,
				Role: models.RolePitcher,
			}
		}
	}
	return nil
}

// lineupBatters extracts batters carrying a batting-order slot.
func lineupBatters(team *boxscoreTeam) []models.Player {
	var batters []models.Player
	for _, bp := range team.Players {
		if bp.BattingOrder == "" {
			continue
		}
		batters = append(batters, models.Player{
			ID:   fmt.Sprintf("%d", bp.Person.ID),
			Name: bp.Person.FullName,
			Team: TeamCode(team.Team.Name),
			Bats: bp.BatSide.Code,
			Role: models.RoleBatter,
		})
	}
	return batters
}

// startingPitcher returns the first listed pitcher, which the boxscore
// orders as the starter.
func startingPitcher(team *boxscoreTeam) *models.Player {
	if len(team.Pitchers) == 0 {
		return nil
	}
	key := fmt.Sprintf("ID%d", team.Pitchers[0])
	bp, ok := team.Players[key]
	if !ok {
		return nil
	}
	return &models.Player{
		ID:     fmt.Sprintf("%d", bp.Person.ID),
		Name:   bp.Person.FullName,
		Team:   TeamCode(team.Team.Name),
		Throws: bp.PitchHand.Code,
		Role:   models.RolePitcher,
	}
}
