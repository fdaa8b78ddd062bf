package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/wordclimb/wordclimb-api/auth"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/handlers"
	"github.com/wordclimb/wordclimb-api/middleware"
)

func init() {
	// Load .env file if not in a deployed environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection and seed the admin password
	config.Connect()
	if err := auth.EnsureAdminPassword(config.Database); err != nil {
		log.Fatalf("failed to seed admin password: %v", err)
	}

	DBHandler := &handlers.DBHandler{DB: config.Database, Settings: config.LoadSettings()}
	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /api/users", DBHandler.CreateOrLoginUser)
	mux.HandleFunc("GET /api/users/{userID}/progress", DBHandler.GetUserProgress)
	mux.HandleFunc("GET /api/users/{userID}/scores", DBHandler.GetUserScores)
	mux.HandleFunc("GET /api/users/{userID}/final-challenge-status", DBHandler.GetFinalChallengeStatus)
	mux.HandleFunc("GET /api/users/{userID}/final-challenge-words", DBHandler.GetFinalChallengeWords)

	// Words
	mux.HandleFunc("GET /api/words", DBHandler.GetWords)
	mux.HandleFunc("POST /api/words", middleware.RequireAdmin(DBHandler.CreateWord))
	mux.HandleFunc("GET /api/words/audio", DBHandler.GetWordAudio)
	mux.HandleFunc("POST /api/words/import", middleware.RequireAdmin(DBHandler.ImportWords))
	mux.HandleFunc("GET /api/words/export", middleware.RequireAdmin(DBHandler.ExportWords))
	mux.HandleFunc("GET /api/words/template", middleware.RequireAdmin(DBHandler.GetImportTemplate))
	mux.HandleFunc("GET /api/words/{wordID}", DBHandler.GetWordByID)
	mux.HandleFunc("PUT /api/words/{wordID}", middleware.RequireAdmin(DBHandler.UpdateWordByID))
	mux.HandleFunc("DELETE /api/words/{wordID}", middleware.RequireAdmin(DBHandler.DeleteWordByID))

	// Groups
	mux.HandleFunc("GET /api/groups", DBHandler.GetGroups)
	mux.HandleFunc("POST /api/groups", middleware.RequireAdmin(DBHandler.CreateGroup))
	mux.HandleFunc("GET /api/groups/{groupID}", DBHandler.GetGroupByID)
	mux.HandleFunc("PUT /api/groups/{groupID}", middleware.RequireAdmin(DBHandler.UpdateGroupByID))
	mux.HandleFunc("DELETE /api/groups/{groupID}", middleware.RequireAdmin(DBHandler.DeleteGroupByID))
	mux.HandleFunc("GET /api/groups/{groupID}/words", DBHandler.GetGroupWords)
	mux.HandleFunc("POST /api/groups/{groupID}/words", middleware.RequireAdmin(DBHandler.AddWordToGroup))
	mux.HandleFunc("DELETE /api/groups/{groupID}/words/{wordID}", middleware.RequireAdmin(DBHandler.RemoveWordFromGroup))

	// Learning
	mux.HandleFunc("POST /api/learning/submit", DBHandler.SubmitLearningResult)
	mux.HandleFunc("GET /api/learning/progress/{userID}/{groupID}", DBHandler.GetGroupProgress)
	mux.HandleFunc("GET /api/learning/words/{userID}/{groupID}/{stage}", DBHandler.GetLearningWords)
	mux.HandleFunc("GET /api/learning/leaderboard", DBHandler.GetLeaderboard)
	mux.HandleFunc("GET /api/learning/rank/{userID}", DBHandler.GetUserRank)

	// Admin
	mux.HandleFunc("POST /api/admin/login", DBHandler.AdminLogin)
	mux.HandleFunc("POST /api/admin/check/{userID}", DBHandler.CheckAdmin)
	mux.HandleFunc("PUT /api/admin/set-admin/{userID}", middleware.RequireAdmin(DBHandler.SetAdmin))
	mux.HandleFunc("PUT /api/admin/remove-admin/{userID}", middleware.RequireAdmin(DBHandler.RemoveAdmin))
	mux.HandleFunc("POST /api/admin/initialize-balanced-groups", middleware.RequireAdmin(DBHandler.InitializeBalancedGroups))
	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAdmin(DBHandler.GetSystemStats))

	// Cached pronunciation audio
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	log.Printf("listening on %s", serverAddr)
	http.ListenAndServe(serverAddr, corsHandler)
}
