package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/wordclimb/wordclimb-api/models"
	"github.com/wordclimb/wordclimb-api/services"
)

// POST /api/users — login is get-or-create by username.
func (db *DBHandler) CreateOrLoginUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "username is required")
		return
	}

	var user models.User
	if err := db.Where(models.User{Username: username}).FirstOrCreate(&user).Error; err != nil {
		log.Printf("CreateOrLoginUser: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// GET /api/users/{userID}/progress
func (db *DBHandler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	report, err := services.UserProgressReport(db.DB, userID)
	if err != nil {
		log.Printf("GetUserProgress: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to build progress report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": report})
}

// GET /api/users/{userID}/scores
func (db *DBHandler) GetUserScores(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	var scores []models.Score
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&scores).Error; err != nil {
		log.Printf("GetUserScores: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

// GET /api/users/{userID}/final-challenge-status
func (db *DBHandler) GetFinalChallengeStatus(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	unlocked, err := services.FinalChallengeUnlocked(db.DB, userID)
	if err != nil {
		log.Printf("GetFinalChallengeStatus: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to check final challenge")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"unlocked": unlocked})
}

// GET /api/users/{userID}/final-challenge-words
func (db *DBHandler) GetFinalChallengeWords(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	unlocked, err := services.FinalChallengeUnlocked(db.DB, userID)
	if err != nil {
		log.Printf("GetFinalChallengeWords: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to check final challenge")
		return
	}
	if !unlocked {
		respondError(w, http.StatusForbidden, "forbidden", "final challenge is not unlocked yet")
		return
	}

	words, err := services.FinalChallengeWords(db.DB, userID)
	if err != nil {
		log.Printf("GetFinalChallengeWords: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch words")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}

// userExists writes the not-found response itself when the user is
// absent, mirroring the reference's per-route user validation.
func (db *DBHandler) userExists(w http.ResponseWriter, userID uint) bool {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return false
	}
	return true
}
