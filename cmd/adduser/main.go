// Command adduser creates an account directly in the database, for
// bootstrapping a deployment without going through the HTTP API. The
// password is prompted without echo.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"taskvault/internal/cryptox"
	"taskvault/internal/server/config"
	"taskvault/internal/server/repositories/repomanager"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	email, err := promptEmail()
	if err != nil {
		log.Fatalf("%v", err)
	}
	password, err := promptPassword()
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	digest, err := cryptox.HashPassword(password)
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}

	user, err := rm.Users(db).Create(ctx, email, digest)
	if err != nil {
		log.Fatalf("error creating user: %v", err)
	}

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
}

func promptEmail() (string, error) {
	fmt.Print("Email: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading email: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(line))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email: %q", email)
	}
	return email, nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	if len(raw) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return string(raw), nil
}
