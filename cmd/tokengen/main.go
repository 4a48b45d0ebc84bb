package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/tokengenerator"
)

func main() {
	// Parse command line flags
	secret := flag.String("secret", "very-secure-jwt-secret", "Secret key for signing the token (JWT_SECRET of the portal)")
	issuer := flag.String("issuer", "ministry-portal", "Issuer of the token")
	audience := flag.String("audience", "ministry-portal", "Audience of the token")
	userId := flag.String("user-id", "", "User ID of the session (required)")
	email := flag.String("email", "", "Email of the session")
	contactId := flag.Int64("contact-id", 0, "Contact ID of the session")
	roles := flag.String("roles", "", "Comma-separated roles, e.g. admin,staff")
	expiry := flag.Duration("expiry", tokengenerator.DefaultSessionExpiry, "Token expiry duration (e.g., 30m, 1h, 24h)")
	outputFormat := flag.String("format", "compact", "Output format: compact, full, or debug")
	flag.Parse()

	if *userId == "" {
		fmt.Fprintln(os.Stderr, "Error: -user-id is required")
		flag.Usage()
		os.Exit(2)
	}

	claims := client.Claims{
		UserId:    *userId,
		Email:     *email,
		ContactId: *contactId,
	}
	for _, role := range strings.Split(*roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			claims.Roles = append(claims.Roles, role)
		}
	}

	tokenGen := tokengenerator.NewJwtTokenGenerator(*secret, *issuer, *audience)

	tokenStr, expiryTime, err := tokenGen.GenerateToken(claims.UserId, *expiry, claims.ToMap())
	if err != nil {
		slog.Error("Failed to generate token", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "full":
		fmt.Printf("Token: %s\nExpires: %s\n", tokenStr, expiryTime.Format(time.RFC3339))
		fmt.Printf("Use: curl -H 'Authorization: Bearer %s' ...\n", tokenStr)
	case "debug":
		token, err := tokenGen.ParseToken(tokenStr)
		if err != nil {
			slog.Error("Failed to parse generated token", "err", err)
			fmt.Fprintf(os.Stderr, "Error: Failed to parse generated token: %v\n", err)
			os.Exit(1)
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: Failed to get claims from token\n")
			os.Exit(1)
		}

		fmt.Printf("=== Token Information ===\n")
		fmt.Printf("Token: %s\n\n", tokenStr)
		fmt.Printf("=== Token Header ===\n")
		headerJSON, _ := json.MarshalIndent(token.Header, "", "  ")
		fmt.Printf("%s\n\n", headerJSON)
		fmt.Printf("=== Token Claims ===\n")
		claimsJSON, _ := json.MarshalIndent(mapClaims, "", "  ")
		fmt.Printf("%s\n\n", claimsJSON)
		fmt.Printf("Expires: %s\n", expiryTime.Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
