package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/radahn42/chronicles/internal/config"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/jwt"
)

// A tool to mint an access token with the configured secret, for calling
// protected endpoints by hand:
//
//	go run ./cmd/tokengen --config=./config/local.yaml --claim='{"email":"a@x.com"}'
//	curl --cookie "token=$(go run ./cmd/tokengen ...)" localhost:5000/blogs
func main() {
	var claimJSON string
	var ttl time.Duration

	flag.StringVar(&claimJSON, "claim", `{"email":"dev@localhost"}`, "identity claim as a JSON object")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime, auth.token_ttl when zero")

	cfg := config.MustLoad()

	var claim models.IdentityClaim
	if err := json.Unmarshal([]byte(claimJSON), &claim); err != nil || claim == nil {
		log.Fatalf("claim must be a JSON object: %v", err)
	}

	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	token, err := jwt.NewToken(claim, cfg.Auth.Secret, ttl, time.Now())
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
