package progression

import (
	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
)

// DayOutline is one day of an AI-generated plan outline.
type DayOutline struct {
	MissionTitle string `json:"mission_title"`
	Focus        string `json:"focus"`
}

// SeedDays builds the Day rows for a fresh plan from its outline. Day 1
// starts ready, all later days locked, everything at the lowest difficulty;
// adaptation only kicks in as grades come back.
func SeedDays(planID uuid.UUID, outline []DayOutline) ([]*domain.Day, error) {
	days := make([]*domain.Day, 0, len(outline))
	for i, o := range outline {
		day, err := domain.NewDay(planID, i+1, o.MissionTitle, o.Focus, domain.MinDifficulty)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}
