// Command createadmin seeds an admin user into the configured database.
// The password is prompted on the terminal without echo.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dmitrijs2005/userdir/internal/flagx"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/config"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userdir/internal/server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "createadmin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var name, username, email string

	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-u", "-e"})
	fs := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	fs.StringVar(&name, "n", "Administrator", "admin display name")
	fs.StringVar(&username, "u", "admin", "admin username")
	fs.StringVar(&email, "e", "admin@localhost", "admin email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.LoadConfig()

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if err := auth.ValidatePassword(string(password)); err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	svc := services.NewUserService(db, repos, cfg)

	user, err := svc.CreateWithRole(ctx, &models.CreateUserInput{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(password),
	}, models.RoleAdmin)
	if err != nil {
		return err
	}

	fmt.Printf("created admin %q (id=%d)\n", user.Username, user.ID)
	return nil
}
