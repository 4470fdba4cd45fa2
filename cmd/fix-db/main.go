package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Утилита для ремонта "грязного" состояния миграций: упавшая миграция
// оставляет schema_migrations с dirty=true, и приложение перестает стартовать.
// Принудительно выставляет указанную версию и снимает флаг dirty.
func main() {
	version := flag.Int("version", 0, "migration version to force (the one before the failed migration)")
	flag.Parse()

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		// Локальная разработка
		connStr = "host=localhost port=5432 user=postgres password=123456 dbname=thinkfast_db sslmode=disable"
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Forcing migration version to %d to clean dirty state...\n", *version)

	if err := m.Force(*version); err != nil {
		log.Fatalf("Failed to force version: %v", err)
	}

	fmt.Println("Success! Dirty state cleaned. You can now run the app normally.")
}
