// Command listusers prints every registered user.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"recommread/internal/config"
	"recommread/internal/db"
	"recommread/internal/logger"
	"recommread/internal/models"
	"recommread/internal/repository"
	"recommread/internal/services"
)

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "listusers: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout carries the listing, keep the logger quiet
	log, err := logger.New("listusers", "error")
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	gdb, err := db.Open(cfg.DatabaseURL, "error", log)
	if err != nil {
		return err
	}
	defer db.Close(gdb) //nolint:errcheck

	users, err := services.NewAuthService(log, repository.NewGormRepository(gdb)).ListUsers(ctx)
	if err != nil {
		return err
	}
	return printUsers(w, users)
}

func printUsers(w io.Writer, users []models.User) error {
	for _, u := range users {
		if _, err := fmt.Fprintf(w, "ID: %d, Username: %s, Email: %s\n", u.ID, u.Username, u.Email); err != nil {
			return err
		}
	}
	return nil
}
