package main

import (
	"flag"
	"log"
	"os"

	"quizhub/config"
	"quizhub/database"
	"quizhub/services/catalog"
	"quizhub/services/users"
	"quizhub/utils"
)

func main() {
	path := flag.String("file", "questions.yaml", "YAML question bank to import")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open question bank: %v", err)
	}
	defer file.Close()

	bank, err := utils.ParseQuestionBank(file)
	if err != nil {
		log.Fatalf("Failed to read question bank: %v", err)
	}

	creator, err := users.GetByUserName(db, bank.Creator)
	if err != nil {
		log.Fatalf("Creator %s: %v", bank.Creator, err)
	}

	items, err := bank.Inputs(db)
	if err != nil {
		log.Fatalf("Failed to prepare questions: %v", err)
	}
	log.Printf("Total questions to import: %d", len(items))

	summary := catalog.BulkImport(db, creator.ID, items)
	for _, e := range summary.Errors {
		log.Printf("Question %d skipped: %s", e.Index, e.Message)
	}
	log.Printf("Import complete. Imported: %d, Failed: %d", summary.SuccessCount, summary.FailureCount)
}
