// cmd/adduser/main.go
// Creates or updates a user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username chief -password testing -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/padraicbc/skyscore/config"
	bundb "github.com/padraicbc/skyscore/db"
	"github.com/padraicbc/skyscore/handlers"
	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/store"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	role := flag.String("role", models.RoleJudge, "viewer, judge or admin")
	flag.Parse()

	*role = strings.ToLower(strings.TrimSpace(*role))
	if !models.ValidRole(*role) {
		log.Fatalf("unknown role %q: want viewer, judge or admin", *role)
	}

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal("both -username and -password are required: ", err)
	}

	cfg := config.LoadTool()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(*username),
		Password: hash,
		Role:     *role,
	}
	if err := store.New(db).SaveUser(ctx, user); err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved as %s\n", user.Username, user.Role)
}
