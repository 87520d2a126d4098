package services

import (
	"fmt"
	"log"
	"math"

	"courtflow_go/models"

	"gorm.io/gorm"
)

// Weights and thresholds for the duplicate-case heuristic. The composite score
// must reach DuplicateScoreThreshold with at least one recorded factor before a
// case is reported as a probable duplicate.
const (
	DuplicateScoreThreshold = 0.70

	titleWeight       = 0.4
	descriptionWeight = 0.3
	defendantWeight   = 0.2
	caseTypeBonus     = 0.10
	courtBonus        = 0.05

	titleFactorThreshold       = 0.6
	descriptionFactorThreshold = 0.5
	defendantFactorThreshold   = 0.8
)

// CaseCandidate carries the fields of an in-flight filing that participate in
// duplicate detection. Title and Description are required by the caller;
// everything else is optional.
type CaseCandidate struct {
	Title         string
	Description   string
	DefendantName string
	CaseType      string
	CourtID       string
}

// DuplicateMatch describes one existing case considered similar to a candidate
// filing. It is computed per filing attempt and never persisted.
type DuplicateMatch struct {
	CaseID     string   `json:"case_id"`
	CaseNumber string   `json:"case_number"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	FiledAt    string   `json:"filed_at"`
	Score      int      `json:"score"`   // 0-100 integer percentage
	Factors    []string `json:"factors"` // Human-readable matching factors, fixed order
}

// FindDuplicateCases scans the client's non-closed cases and returns those that
// are probably duplicates of the candidate filing. Matches are returned in scan
// order. Missing optional candidate fields never cause an error.
func FindDuplicateCases(dbConn *gorm.DB, clientID string, candidate CaseCandidate) ([]DuplicateMatch, error) {
	var existing []models.Case
	err := dbConn.Where("client_id = ? AND status <> ?", clientID, models.CaseStatusClosed).
		Find(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client cases: %w", err)
	}

	var matches []DuplicateMatch
	for _, kase := range existing {
		score, factors := scoreCandidate(candidate, &kase)
		if score >= DuplicateScoreThreshold && len(factors) > 0 {
			matches = append(matches, DuplicateMatch{
				CaseID:     kase.ID,
				CaseNumber: kase.CaseNumber,
				Title:      kase.Title,
				Status:     kase.Status,
				FiledAt:    kase.FiledAt.Format("2006-01-02"),
				Score:      similarityPercent(score),
				Factors:    factors,
			})
		}
	}

	return matches, nil
}

// scoreCandidate computes the weighted composite score between a candidate
// filing and one existing case, with the factors recorded in fixed order:
// title, description, defendant, case type, court. A similarity sub-score
// contributes its weight to the composite only once it passes its factor
// threshold, so every contribution is always paired with a recorded factor.
func scoreCandidate(candidate CaseCandidate, kase *models.Case) (float64, []string) {
	var score float64
	var factors []string

	titleSim := TextSimilarity(candidate.Title, kase.Title)
	if titleSim > titleFactorThreshold {
		score += titleWeight
		factors = append(factors, fmt.Sprintf("Similar title (%d%% match)", similarityPercent(titleSim)))
	}

	descSim := TextSimilarity(candidate.Description, kase.Description)
	if descSim > descriptionFactorThreshold {
		score += descriptionWeight
		factors = append(factors, fmt.Sprintf("Similar description (%d%% match)", similarityPercent(descSim)))
	}

	if candidate.DefendantName != "" && kase.Defendant.Name != "" {
		defSim := TextSimilarity(candidate.DefendantName, kase.Defendant.Name)
		if defSim > defendantFactorThreshold {
			score += defendantWeight
			factors = append(factors, fmt.Sprintf("Similar defendant name (%d%% match)", similarityPercent(defSim)))
		}
	}

	if candidate.CaseType != "" && candidate.CaseType == kase.CaseType {
		score += caseTypeBonus
		factors = append(factors, "Same case type")
	}

	if candidate.CourtID != "" && kase.CourtID != nil && candidate.CourtID == *kase.CourtID {
		score += courtBonus
		factors = append(factors, "Same court")
	}

	return score, factors
}

// similarityPercent converts a similarity score to a display percentage.
// The containment formula can exceed 1.0 when the first list repeats words,
// so the percentage is clamped for display.
func similarityPercent(sim float64) int {
	pct := int(math.Round(sim * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// CheckDuplicatesSafe runs duplicate detection as a fail-open pre-check: any
// internal error is logged and reported as "no duplicates found" so a store
// hiccup never blocks a filing.
func CheckDuplicatesSafe(dbConn *gorm.DB, clientID string, candidate CaseCandidate) []DuplicateMatch {
	matches, err := FindDuplicateCases(dbConn, clientID, candidate)
	if err != nil {
		log.Printf("[WARNING] Duplicate check failed for client %s: %v", clientID, err)
		return nil
	}
	return matches
}
