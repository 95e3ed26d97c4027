package main

import (
	"context"
	"energylabel/config"
	"energylabel/internal/questionnaire"
	"energylabel/internal/repository"
	"flag"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed stores a questionnaire for a host so it can be edited through the API.
// Without -file the bundled default questionnaire is stored.
func main() {
	hostID := flag.String("host", "", "host id that will own the questionnaire (required)")
	file := flag.String("file", "", "questionnaire document to store (JSON or YAML)")
	title := flag.String("title", "", "title to give the stored questionnaire")
	flag.Parse()

	if *hostID == "" {
		log.Fatal("-host is required")
	}

	cfg := config.Load()

	q := questionnaire.Default()
	if *file != "" {
		var err error
		if q, err = questionnaire.LoadFile(*file); err != nil {
			log.Fatalf("Failed to load questionnaire: %v", err)
		}
	}
	if err := q.Validate(); err != nil {
		log.Fatalf("Questionnaire is invalid: %v", err)
	}
	q.ID = ""
	q.HostID = *hostID
	if *title != "" {
		q.Title = *title
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionnaireRepo(client.Database(cfg.MongoDatabase))
	id, err := repo.Create(ctx, q)
	if err != nil {
		log.Fatalf("Failed to insert questionnaire: %v", err)
	}

	fmt.Printf("Stored questionnaire %s (%d questions) for host '%s'\n", id, len(q.Questions), q.HostID)
}
