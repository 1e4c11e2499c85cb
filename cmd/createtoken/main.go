// Command createtoken prints a tenant token for a company id.
//
//	createtoken -company 65f1c0ffee0000000000beef -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/wagebook/internal/config"
	"github.com/mamadbah2/wagebook/internal/server/middleware"
)

func main() {
	companyHex := flag.String("company", "", "company id (24 hex characters)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	envFile := flag.String("env", "", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	companyID, err := primitive.ObjectIDFromHex(*companyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -company %q: %v\n", *companyHex, err)
		os.Exit(2)
	}

	token, err := middleware.CreateToken([]byte(cfg.Auth.JWTSecret), companyID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
