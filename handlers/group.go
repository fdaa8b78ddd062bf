package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

// GET /api/groups
func (db *DBHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	var groups []models.WordGroup
	if err := db.Order("sequence asc").Find(&groups).Error; err != nil {
		log.Printf("GetGroups: query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch groups")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// POST /api/groups
func (db *DBHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "name is required")
		return
	}

	var maxSequence int
	row := db.Model(&models.WordGroup{}).Select("COALESCE(MAX(sequence), 0)").Row()
	if err := row.Scan(&maxSequence); err != nil {
		log.Printf("CreateGroup: max sequence query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to create group")
		return
	}

	group := models.WordGroup{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Sequence:    maxSequence + 1,
	}
	if err := db.Create(&group).Error; err != nil {
		log.Printf("CreateGroup: create failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to create group")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"group": group})
}

// GET /api/groups/{groupID}
func (db *DBHandler) GetGroupByID(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"group": group})
}

// PUT /api/groups/{groupID}
func (db *DBHandler) UpdateGroupByID(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	var req struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		Sequence    *int    `json:"sequence,omitempty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		group.Description = strings.TrimSpace(*req.Description)
	}
	if req.Sequence != nil {
		if *req.Sequence < 1 {
			respondError(w, http.StatusBadRequest, "invalid_input", "sequence must be positive")
			return
		}
		group.Sequence = *req.Sequence
	}

	if err := db.Save(&group).Error; err != nil {
		log.Printf("UpdateGroupByID: save failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to update group")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"group": group})
}

// DELETE /api/groups/{groupID} — also removes the group's memberships
// and every user's progress rows for it.
func (db *DBHandler) DeleteGroupByID(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	// Unscoped: a soft-deleted membership would keep blocking the
	// unique (group, word) index if the pair is ever re-added.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("group_id = ?", group.ID).Delete(&models.GroupWord{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("group_id = ?", group.ID).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&group).Error
	})
	if err != nil {
		log.Printf("DeleteGroupByID: cascade delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to delete group")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "group deleted"})
}

// GET /api/groups/{groupID}/words
func (db *DBHandler) GetGroupWords(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	var words []models.Word
	err := db.Joins("JOIN group_words ON group_words.word_id = words.id").
		Where("group_words.group_id = ? AND group_words.deleted_at IS NULL", group.ID).
		Find(&words).Error
	if err != nil {
		log.Printf("GetGroupWords: query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch group words")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}

// POST /api/groups/{groupID}/words — idempotent membership add.
func (db *DBHandler) AddWordToGroup(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	var req struct {
		WordID uint `json:"word_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	var word models.Word
	if err := db.First(&word, req.WordID).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "word not found")
		return
	}

	var membership models.GroupWord
	err := db.Where(models.GroupWord{GroupID: group.ID, WordID: word.ID}).
		FirstOrCreate(&membership).Error
	if err != nil {
		log.Printf("AddWordToGroup: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to add word to group")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"group_word": map[string]uint{
			"id":       membership.ID,
			"group_id": membership.GroupID,
			"word_id":  membership.WordID,
		},
	})
}

// DELETE /api/groups/{groupID}/words/{wordID}
func (db *DBHandler) RemoveWordFromGroup(w http.ResponseWriter, r *http.Request) {
	var group models.WordGroup
	if err := db.First(&group, pathID(r, "groupID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	var word models.Word
	if err := db.First(&word, pathID(r, "wordID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "word not found")
		return
	}

	var membership models.GroupWord
	err := db.Where("group_id = ? AND word_id = ?", group.ID, word.ID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "word is not in this group")
		return
	}
	if err != nil {
		log.Printf("RemoveWordFromGroup: lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to remove word")
		return
	}

	// Unscoped so re-adding the word later does not hit the unique
	// (group, word) index on the dead row.
	if err := db.Unscoped().Delete(&membership).Error; err != nil {
		log.Printf("RemoveWordFromGroup: delete failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to remove word")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "word removed from group"})
}
