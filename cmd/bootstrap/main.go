// Command bootstrap creates the first administrator account. The password is
// read from the terminal with echo disabled.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/kaffeekasse/internal/bootstrap"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"
	"golang.org/x/term"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	dsn := flag.String("d", "", "database DSN")
	username := flag.String("u", "admin", "administrator username")
	email := flag.String("e", "", "administrator email")
	flag.Parse()

	if *dsn == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	password, err := readPassword()
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	account, err := bootstrap.CreateAdmin(ctx, db, rm, *username, *email, password)
	if err != nil {
		log.Fatalf("creating administrator: %v", err)
	}

	log.Printf("created administrator %s (id=%s)", account.Username, account.ID)
}

func readPassword() ([]byte, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	fmt.Print("Repeat password: ")
	repeat, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(password, repeat) {
		return nil, fmt.Errorf("passwords do not match")
	}

	return password, nil
}
