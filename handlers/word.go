package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wordclimb/wordclimb-api/models"
	"github.com/wordclimb/wordclimb-api/services"
)

// GET /api/words
func (db *DBHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	query := db.Order("id asc")
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil || difficulty < 1 || difficulty > 4 {
			respondError(w, http.StatusBadRequest, "invalid_input", "difficulty must be 1-4")
			return
		}
		query = query.Where("difficulty = ?", difficulty)
	}

	var words []models.Word
	if err := query.Find(&words).Error; err != nil {
		log.Printf("GetWords: query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal", "failed to fetch words")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}

// POST /api/words
func (db *DBHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word        string `json:"word"`
		Translation string `json:"translation"`
		Difficulty  int    `json:"difficulty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	word, err := services.CreateWord(db.DB, req.Word, req.Translation, req.Difficulty)
	if err != nil {
		log.Printf("CreateWord: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"word": word})
}

// GET /api/words/{wordID}
func (db *DBHandler) GetWordByID(w http.ResponseWriter, r *http.Request) {
	var word models.Word
	if err := db.First(&word, pathID(r, "wordID")).Error; err != nil {
		respondError(w, http.StatusNotFound, "not_found", "word not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"word": word})
}

// PUT /api/words/{wordID}
func (db *DBHandler) UpdateWordByID(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word        *string `json:"word,omitempty"`
		Translation *string `json:"translation,omitempty"`
		Difficulty  *int    `json:"difficulty,omitempty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	word, err := services.UpdateWord(db.DB, pathID(r, "wordID"), req.Word, req.Translation, req.Difficulty)
	if err != nil {
		log.Printf("UpdateWordByID: %v", err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"word": word})
}

// DELETE /api/words/{wordID}
func (db *DBHandler) DeleteWordByID(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteWord(db.DB, pathID(r, "wordID")); err != nil {
		log.Printf("DeleteWordByID: %v", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "word deleted"})
}

// GET /api/words/audio?word=
func (db *DBHandler) GetWordAudio(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "word parameter is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"word":      word,
		"audio_url": services.WordAudioURL(word),
	})
}

// POST /api/words/import (multipart form, field "file")
func (db *DBHandler) ImportWords(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input", "file is required")
		return
	}
	defer file.Close()

	result, err := services.ImportWords(db.DB, header.Filename, file)
	if err != nil {
		log.Printf("ImportWords: %v", err)
		respondServiceError(w, err)
		return
	}

	log.Printf("ImportWords: imported %d of %d rows", result.Imported, result.TotalProcessed)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"imported_count": result.Imported,
		"skipped":        result.Skipped,
		"errors":         result.Errors,
	})
}

// GET /api/words/export?format=csv|excel
func (db *DBHandler) ExportWords(w http.ResponseWriter, r *http.Request) {
	path, err := services.ExportWords(db.DB, r.URL.Query().Get("format"))
	if err != nil {
		log.Printf("ExportWords: %v", err)
		respondServiceError(w, err)
		return
	}
	serveDownload(w, r, path)
}

// GET /api/words/template?format=csv|excel
func (db *DBHandler) GetImportTemplate(w http.ResponseWriter, r *http.Request) {
	path, err := services.TemplateFile(r.URL.Query().Get("format"))
	if err != nil {
		log.Printf("GetImportTemplate: %v", err)
		respondServiceError(w, err)
		return
	}
	serveDownload(w, r, path)
}

func serveDownload(w http.ResponseWriter, r *http.Request, path string) {
	defer os.Remove(path)
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	http.ServeFile(w, r, path)
}
