package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/wordclimb/wordclimb-api/services"
)

// POST /api/learning/submit
func (db *DBHandler) SubmitLearningResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    uint                  `json:"user_id"`
		GroupID   uint                  `json:"group_id"`
		Stage     int                   `json:"stage"`
		Results   []services.WordResult `json:"results"`
		TimeSpent int                   `json:"time_spent"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.UserID == 0 || req.GroupID == 0 || req.Stage == 0 {
		respondError(w, http.StatusBadRequest, "invalid_input", "user_id, group_id and stage are required")
		return
	}

	result, err := services.SubmitLearningResult(db.DB, db.Settings,
		req.UserID, req.GroupID, req.Stage, req.Results, req.TimeSpent)
	if err != nil {
		log.Printf("SubmitLearningResult: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /api/learning/progress/{userID}/{groupID}
func (db *DBHandler) GetGroupProgress(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	progress, err := services.GroupProgressReport(db.DB, userID, pathID(r, "groupID"))
	if err != nil {
		log.Printf("GetGroupProgress: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

// GET /api/learning/words/{userID}/{groupID}/{stage}
func (db *DBHandler) GetLearningWords(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	stage, err := strconv.Atoi(r.PathValue("stage"))
	if err != nil || stage < 1 || stage > 3 {
		respondError(w, http.StatusBadRequest, "invalid_input", "stage must be 1-3")
		return
	}

	words, err := services.LearningWords(db.DB, userID, pathID(r, "groupID"), stage)
	if err != nil {
		log.Printf("GetLearningWords: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}

// GET /api/learning/leaderboard?level=&limit=
func (db *DBHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid_input", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	scores, err := services.TopScores(db.DB, r.URL.Query().Get("level"), limit)
	if err != nil {
		log.Printf("GetLeaderboard: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

// GET /api/learning/rank/{userID}?level=
func (db *DBHandler) GetUserRank(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userID")
	if !db.userExists(w, userID) {
		return
	}

	rank, err := services.UserRank(db.DB, userID, r.URL.Query().Get("level"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "user has no scores yet")
			return
		}
		log.Printf("GetUserRank: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to compute rank")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"rank": rank})
}
