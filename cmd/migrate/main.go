package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/jdrojas/repuestos-lan/internal/infrastructure/sqlite"
	"github.com/jdrojas/repuestos-lan/pkg/config"
)

func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "", "ruta de la base SQLite (por defecto la de la configuración)")
	flag.Parse()

	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("migrate: cargar configuración: %v", err)
		}
		dbPath = cfg.DB.Path
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("migrate: abrir %s: %v", dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("migrate: cerrar base: %v", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := sqlite.RunMigrationCommand(db.SQL(), command, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}
	fmt.Printf("goose %s: ok (%s)\n", command, dbPath)
}
