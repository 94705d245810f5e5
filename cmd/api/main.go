package main

import (
	"log"
	"os"

	"goanomaly/adapters/api"
	"goanomaly/adapters/postgres"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[API] No .env file found, using environment as-is")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var server *api.Server
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sqlx.Connect("postgres", dbURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to database: %v", err)
		}
		defer db.Close()
		server = api.NewServerWithRepository(postgres.NewFeatureRepository(db))
		log.Printf("[API] History routes enabled")
	} else {
		server = api.NewServer()
		log.Printf("[API] DATABASE_URL not set, running stateless scoring only")
	}

	if err := server.ListenAndServe(":" + port); err != nil {
		log.Fatalf("[API] Server failed: %v", err)
	}
}
