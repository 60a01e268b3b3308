package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Usage: go run ./scripts/migrate [-down] [-status] [-dir migrations]
func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	status := flag.Bool("status", false, "list applied migrations and exit")
	dir := flag.String("dir", database.MigrationsDir, "directory holding the .sql migrations")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	source := &migrate.FileMigrationSource{Dir: *dir}

	switch {
	case *status:
		records, err := migrate.GetMigrationRecords(sqlDB, "postgres")
		if err != nil {
			log.Fatalf("Failed to read migration records: %v", err)
		}
		for _, r := range records {
			log.Printf("  %s  applied %s", r.Id, r.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		log.Printf("📋 %d migration(s) applied", len(records))

	case *down:
		log.Printf("⏪ Rolling back the last migration from %s/ ...", *dir)
		n, err := migrate.ExecMax(sqlDB, "postgres", source, migrate.Down, 1)
		if err != nil {
			log.Fatalf("Failed to roll back: %v", err)
		}
		log.Printf("✅ Rolled back %d migration(s)", n)

	default:
		log.Printf("🔄 Applying migrations from %s/ ...", *dir)
		n, err := database.RunMigrations(db, *dir)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("✅ Successfully applied %d migration(s)!", n)
	}

	os.Exit(0)
}
