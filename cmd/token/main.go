// Command token prints a bearer token for the /collect endpoints.
//
//	COLLECT_JWT_SECRET=... go run ./cmd/token -sub ops -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"finance_collector/internal/platform/config"
	jwtmw "finance_collector/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "operator", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.Load()
	if cfg.Auth.CollectJWTSecret == "" {
		log.Fatal("COLLECT_JWT_SECRET is not set")
	}

	token, err := jwtmw.NewGenerator(cfg.Auth.CollectJWTSecret, *ttl).GenerateToken(*sub)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
