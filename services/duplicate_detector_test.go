package services

import (
	"testing"
	"time"

	"courtflow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDetectorTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.User{}, &models.Court{}, &models.Case{})
	return db
}

func createDetectorCase(db *gorm.DB, id, clientID, title, description, caseType, status string, defendantName string) *models.Case {
	kase := &models.Case{
		ID:          id,
		CaseNumber:  "CASE-" + id,
		ClientID:    clientID,
		Title:       title,
		Description: description,
		CaseType:    caseType,
		Status:      status,
		Defendant:   models.Party{Name: defendantName},
		FiledAt:     time.Now(),
	}
	db.Create(kase)
	return kase
}

func TestFindDuplicateCases_SmithVsJones(t *testing.T) {
	db := setupDetectorTestDB()
	clientID := "client-1"

	createDetectorCase(db, "a1", clientID, "Smith vs Jones", "boundary dispute", "Civil", models.CaseStatusOpen, "")

	matches, err := FindDuplicateCases(db, clientID, CaseCandidate{
		Title:       "Smith v. Jones",
		Description: "boundary dispute over fence",
	})

	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.GreaterOrEqual(t, matches[0].Score, 70)
	assert.Equal(t, "CASE-a1", matches[0].CaseNumber)
	assert.Len(t, matches[0].Factors, 2)
	assert.Contains(t, matches[0].Factors[0], "Similar title")
	assert.Contains(t, matches[0].Factors[1], "Similar description")
}

func TestFindDuplicateCases_IgnoresOtherClients(t *testing.T) {
	db := setupDetectorTestDB()

	createDetectorCase(db, "b1", "someone-else", "Smith vs Jones", "boundary dispute", "Civil", models.CaseStatusOpen, "")

	matches, err := FindDuplicateCases(db, "client-1", CaseCandidate{
		Title:       "Smith vs Jones",
		Description: "boundary dispute",
	})

	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDuplicateCases_IgnoresClosedCases(t *testing.T) {
	db := setupDetectorTestDB()
	clientID := "client-1"

	createDetectorCase(db, "c1", clientID, "Smith vs Jones", "boundary dispute", "Civil", models.CaseStatusClosed, "")

	matches, err := FindDuplicateCases(db, clientID, CaseCandidate{
		Title:       "Smith vs Jones",
		Description: "boundary dispute",
	})

	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDuplicateCases_BelowThresholdNotReported(t *testing.T) {
	db := setupDetectorTestDB()
	clientID := "client-1"

	// Only the title factor matches (0.4) plus same case type (0.1): 0.5 < 0.7
	createDetectorCase(db, "d1", clientID, "Smith vs Jones", "completely unrelated contract claim", "Civil", models.CaseStatusOpen, "")

	matches, err := FindDuplicateCases(db, clientID, CaseCandidate{
		Title:       "Smith vs Jones",
		Description: "inheritance of the family estate",
		CaseType:    "Civil",
	})

	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDuplicateCases_DefendantTypeAndCourtFactors(t *testing.T) {
	db := setupDetectorTestDB()
	clientID := "client-1"
	courtID := "court-1"

	kase := createDetectorCase(db, "e1", clientID, "Smith vs Jones", "boundary dispute", "Civil", models.CaseStatusOpen, "Robert Jones")
	db.Model(kase).Update("court_id", courtID)

	matches, err := FindDuplicateCases(db, clientID, CaseCandidate{
		Title:         "Smith vs Jones",
		Description:   "boundary dispute",
		DefendantName: "Robert Jones",
		CaseType:      "Civil",
		CourtID:       courtID,
	})

	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, 100, matches[0].Score)
	// Factors come back in fixed order: title, description, defendant, type, court
	assert.Len(t, matches[0].Factors, 5)
	assert.Contains(t, matches[0].Factors[0], "Similar title")
	assert.Contains(t, matches[0].Factors[1], "Similar description")
	assert.Contains(t, matches[0].Factors[2], "Similar defendant name")
	assert.Equal(t, "Same case type", matches[0].Factors[3])
	assert.Equal(t, "Same court", matches[0].Factors[4])
}

func TestFindDuplicateCases_MissingOptionalFields(t *testing.T) {
	db := setupDetectorTestDB()
	clientID := "client-1"

	createDetectorCase(db, "f1", clientID, "Smith vs Jones", "boundary dispute", "", models.CaseStatusOpen, "")

	assert.NotPanics(t, func() {
		matches, err := FindDuplicateCases(db, clientID, CaseCandidate{
			Title:       "Smith vs Jones",
			Description: "boundary dispute",
		})
		assert.NoError(t, err)
		assert.Len(t, matches, 1)
	})
}

func TestCheckDuplicatesSafe_FailsOpen(t *testing.T) {
	// A database without the cases table forces a query error; the safe
	// wrapper must swallow it and report no duplicates.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	matches := CheckDuplicatesSafe(db, "client-1", CaseCandidate{
		Title:       "Smith vs Jones",
		Description: "boundary dispute",
	})

	assert.Empty(t, matches)
}
