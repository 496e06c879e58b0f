package datasource

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/longball/internal/models"
)

// RecordValidator checks fetched records against their schemas before
// they enter the aggregation pipeline.
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator creates a new record validator.
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{validate: validator.New()}
}

// ValidateGame checks a schedule record.
func (rv *RecordValidator) ValidateGame(game *models.Game) error {
	if err := rv.validate.Struct(game); err != nil {
		return NewSourceError(mlbSourceName, ErrCodeInvalidData,
			fmt.Sprintf("invalid game record %s", game.ID), err)
	}
	return nil
}

// ValidateLineup checks a lineup record. Pitchers may be absent in
// probable mode; batters must carry identifiers.
func (rv *RecordValidator) ValidateLineup(lineup *Lineup) error {
	if err := rv.validate.Struct(lineup); err != nil {
		return NewSourceError("lineup", ErrCodeInvalidData,
			fmt.Sprintf("invalid lineup record for game %s", lineup.GameID), err)
	}
	for _, batter := range append(append([]models.Player{}, lineup.Home...), lineup.Away...) {
		if batter.ID == "" || batter.Name == "" {
			return NewSourceError("lineup", ErrCodeInvalidData,
				fmt.Sprintf("batter missing identity in game %s", lineup.GameID), nil)
		}
	}
	return nil
}
