package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/wordclimb/wordclimb-api/auth"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"github.com/wordclimb/wordclimb-api/services"
)

// POST /api/admin/login
func (db *DBHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "username is required")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "password is required")
		return
	}

	var user models.User
	if err := db.Where(models.User{Username: username}).FirstOrCreate(&user).Error; err != nil {
		log.Printf("AdminLogin: get-or-create failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to look up user")
		return
	}

	if !user.IsAdmin {
		// The very first account to log in becomes the admin.
		var total int64
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			log.Printf("AdminLogin: count failed: %v", err)
			respondError(w, http.StatusInternalServerError, "internal", "failed to look up user")
			return
		}
		if total != 1 {
			respondError(w, http.StatusForbidden, "forbidden", "you are not an administrator")
			return
		}
		user.IsAdmin = true
		if err := db.Save(&user).Error; err != nil {
			log.Printf("AdminLogin: promote failed: %v", err)
			respondError(w, http.StatusInternalServerError, "internal", "failed to update user")
			return
		}
	}

	if !auth.VerifyAdminPassword(db.DB, req.Password) {
		respondError(w, http.StatusUnauthorized, "forbidden", "wrong password")
		return
	}

	token, err := auth.CreateAdminToken(user.Username)
	if err != nil {
		log.Printf("AdminLogin: token generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "admin_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// POST /api/admin/check/{userID}
func (db *DBHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "password is required")
		return
	}

	var user models.User
	if err := db.First(&user, pathID(r, "userID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	if !auth.VerifyAdminPassword(db.DB, req.Password) {
		respondError(w, http.StatusUnauthorized, "forbidden", "wrong password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"is_admin": user.IsAdmin})
}

// PUT /api/admin/set-admin/{userID}
func (db *DBHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := db.First(&user, pathID(r, "userID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	user.IsAdmin = true
	if err := db.Save(&user).Error; err != nil {
		log.Printf("SetAdmin: save failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user " + user.Username + " is now an administrator",
		"user":    user,
	})
}

// PUT /api/admin/remove-admin/{userID} — refuses to demote the last
// remaining administrator.
func (db *DBHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := db.First(&user, pathID(r, "userID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins).Error; err != nil {
		log.Printf("RemoveAdmin: count failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}
	if admins <= 1 && user.IsAdmin {
		respondError(w, http.StatusBadRequest, "invalid_input", "cannot remove the last administrator")
		return
	}

	user.IsAdmin = false
	if err := db.Save(&user).Error; err != nil {
		log.Printf("RemoveAdmin: save failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user " + user.Username + " is no longer an administrator",
		"user":    user,
	})
}

// POST /api/admin/initialize-balanced-groups
func (db *DBHandler) InitializeBalancedGroups(w http.ResponseWriter, r *http.Request) {
	if err := services.CheckAllocatorFeasible(db.DB, db.Settings); err != nil {
		log.Printf("InitializeBalancedGroups: %v", err)
		respondServiceError(w, err)
		return
	}

	count, err := services.CreateBalancedGroups(db.DB, db.Settings)
	if err != nil {
		log.Printf("InitializeBalancedGroups: allocation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to create groups")
		return
	}

	log.Printf("InitializeBalancedGroups: created %d groups", count)
	respondJSON(w, http.StatusOK, map[string]int{"groups_count": count})
}

// GET /api/admin/stats
func (db *DBHandler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	var totalWords, totalGroups, totalUsers, totalRecords int64
	for _, c := range []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Word{}, &totalWords},
		{&models.WordGroup{}, &totalGroups},
		{&models.User{}, &totalUsers},
		{&models.WordLearningRecord{}, &totalRecords},
	} {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			log.Printf("GetSystemStats: count failed: %v", err)
			respondError(w, http.StatusInternalServerError, "internal", "failed to gather stats")
			return
		}
	}

	var records []models.WordLearningRecord
	if err := db.Find(&records).Error; err != nil {
		log.Printf("GetSystemStats: records query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to gather stats")
		return
	}
	avgAccuracy := 0.0
	if len(records) > 0 {
		sum := 0.0
		for i := range records {
			sum += float64(records[i].Accuracy())
		}
		avgAccuracy = sum / float64(len(records))
	}

	distribution := make(map[int]int64, 4)
	for tier := config.DifficultyEasy; tier <= config.DifficultyExpert; tier++ {
		var count int64
		if err := db.Model(&models.Word{}).Where("difficulty = ?", tier).Count(&count).Error; err != nil {
			log.Printf("GetSystemStats: difficulty count failed: %v", err)
			respondError(w, http.StatusInternalServerError, "internal", "failed to gather stats")
			return
		}
		distribution[tier] = count
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_words":             totalWords,
		"total_groups":            totalGroups,
		"total_users":             totalUsers,
		"total_learning_records":  totalRecords,
		"avg_accuracy":            avgAccuracy,
		"difficulty_distribution": distribution,
	})
}
