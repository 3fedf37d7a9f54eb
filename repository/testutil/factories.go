package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// CreateTestRound creates an open round with sensible stake rules
func CreateTestRound(name string) *models.Round {
	now := time.Now()
	return &models.Round{
		Name:            name,
		Status:          models.RoundStatusOpen,
		BoardType:       "weekly",
		OpensAt:         now.Add(-time.Hour),
		ClosesAt:        now.Add(72 * time.Hour),
		StartingCredits: 1000,
		StakeStep:       100,
		MinStake:        100,
		MaxStake:        800,
	}
}

// CreateTestPick creates a pick with a future event start
func CreateTestPick(roundID int64, sportSlug string, order int16) *models.Pick {
	start := time.Now().Add(24 * time.Hour)
	return &models.Pick{
		RoundID:      roundID,
		SportSlug:    sportSlug,
		Title:        "Match winner",
		Required:     false,
		DisplayOrder: order,
		Metadata: models.PickMetadata{
			StartTime: &start,
			League:    "Test League",
			Event:     "Home vs Away",
			Country:   "ES",
		},
	}
}

// CreateTestOption creates a pending option for a pick
func CreateTestOption(pickID int64, label string, odds float64) *models.PickOption {
	return &models.PickOption{
		PickID: pickID,
		Label:  label,
		Odds:   odds,
		Result: models.PickResultPending,
	}
}

// CreateTestEntry creates a building entry with the round's full budget
func CreateTestEntry(roundID, userID int64, username string) *models.Entry {
	return &models.Entry{
		RoundID:      roundID,
		UserID:       userID,
		Username:     username,
		Ref:          uuid.New().String(),
		Status:       models.EntryStatusBuilding,
		CreditsStart: 1000,
	}
}
