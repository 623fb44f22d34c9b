package main

import (
	"log"

	"github.com/shashiranjanraj/influex/internal/server"

	// Register migrations and seeders so "influex migrate" run against
	// this binary's schema stays in sync.
	_ "github.com/shashiranjanraj/influex/database/migrations"
	_ "github.com/shashiranjanraj/influex/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
