package datasource

import (
	"context"
	"fmt"

	"github.com/yourusername/longball/internal/models"
)

// FetchOutcomes reports, for every batter who appeared on the date, how
// many home runs they hit. Non-final games are surfaced with
// GameFinal=false so the verifier can exclude them from grading.
func (c *MLBStatsClient) FetchOutcomes(ctx context.Context, date string) ([]models.Outcome, error) {
	games, err := c.FetchGames(ctx, date)
	if err != nil {
		return nil, err
	}

	var outcomes []models.Outcome
	for _, game := range games {
		if !game.IsFinal() {
			outcomes = append(outcomes, models.Outcome{
				GameID:    game.ID,
				GameFinal: false,
			})
			continue
		}

		url := fmt.Sprintf("%s/game/%s/boxscore", c.baseURL, game.ID)
		var box boxscoreResponse
		if err := c.getJSON(ctx, url, &box); err != nil {
			c.logger.WithField("game_id", game.ID).Warnf("Failed to fetch boxscore: %v", err)
			continue
		}

		outcomes = append(outcomes, teamOutcomes(game.ID, &box.Teams.Home)...)
		outcomes = append(outcomes, teamOutcomes(game.ID, &box.Teams.Away)...)
	}

	return outcomes, nil
}

func teamOutcomes(gameID string, team *boxscoreTeam) []models.Outcome {
	var outcomes []models.Outcome
	for _, bp := range team.Players {
		batting := bp.Stats.Batting
		if len(batting) == 0 {
			continue
		}
		outcomes = append(outcomes, models.Outcome{
			GameID:     gameID,
			PlayerID:   fmt.Sprintf("%d", bp.Person.ID),
			PlayerName: bp.Person.FullName,
			HomeRuns:   batting["homeRuns"],
			GameFinal:  true,
		})
	}
	return outcomes
}
