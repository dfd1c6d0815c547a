package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"brainblast/internal/config"
	"brainblast/internal/database"
	"brainblast/internal/service"
)

const usage = `BrainBlast! Database Backup Tool

Usage:
  backup export [options]    Export database to JSON file
  backup import [options]    Import database from JSON file

Export Options:
  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)

Import Options:
  -input <file>     Input file path (required)
  -clear            Clear existing data before import (WARNING: destructive)

Examples:
  backup export
  backup export -output mybackup.json
  backup import -input backup.json
  backup import -input backup.json -clear

Environment Variables:
  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)
  DB_PATH          SQLite database path (default: ./brainblast.db)
  DATABASE_URL     PostgreSQL or MySQL connection URL
`

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	backupService := service.NewBackupService(db)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		runExport(backupService, *exportOutput)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		runImport(backupService, *importInput, *importClear)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runExport(backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting database to: %s", outputPath)
	if err := backupService.Export(outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Printf("Export complete! File size: %.2f MB", float64(fileInfo.Size())/1024/1024)
	}
}

func runImport(backupService *service.BackupService, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}

		log.Println("Clearing existing data...")
		if err := clearDatabase(backupService.GetDB()); err != nil {
			log.Fatalf("Failed to clear database: %v", err)
		}
	}

	log.Printf("Importing database from: %s", inputPath)
	if err := backupService.Import(inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

// clearDatabase empties every table, children before parents so the
// foreign keys never complain.
func clearDatabase(db *database.DB) error {
	tables := []string{
		"daily_bonus_claims",
		"daily_challenges",
		"xp_events",
		"owned_items",
		"skill_mastery",
		"learner_progress",
		"learner_sessions",
		"learners",
		"family_members",
		"families",
		"password_reset_tokens",
		"sessions",
		"users",
	}

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		log.Printf("Cleared table: %s", table)
	}
	return nil
}
