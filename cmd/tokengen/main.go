// Package main provides a CLI tool for generating test tokens for the saasbase API.
// Tokens are signed with the dev key unless -key is given and will NOT work in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "saasbase/internal/jwt_token"
	"saasbase/internal/platform/config"
	id "saasbase/pkg/domain"
)

const (
	defaultIssuer   = "saasbase"
	defaultAudience = "saasbase-api"
	defaultTokenTTL = time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Claims    map[string]any    `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	userID := accessCmd.String("user-id", "", "User ID (UUID). Generated if empty.")
	tenantID := accessCmd.String("tenant-id", "", "Tenant ID (UUID). Required unless -role super_admin.")
	role := accessCmd.String("role", string(id.RoleUser), "Role: super_admin, tenant_admin or user")
	ttl := accessCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	key := accessCmd.String("key", config.DefaultSigningKey, "HMAC signing key")
	issuer := accessCmd.String("issuer", defaultIssuer, "Token issuer")
	audience := accessCmd.String("audience", defaultAudience, "Token audience")
	jsonOut := accessCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		_ = accessCmd.Parse(os.Args[2:])
		generateAccessToken(*userID, *tenantID, id.Role(*role), *ttl, *key, *issuer, *audience, *jsonOut)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test tokens for the saasbase API

WARNING: These tokens use the dev signing key by default and will NOT work in production.

Usage:
  tokengen access [flags]

Examples:
  # Member token for a tenant
  tokengen access -tenant-id "550e8400-e29b-41d4-a716-446655440000"

  # Tenant admin with a short TTL
  tokengen access -tenant-id "550e8400-e29b-41d4-a716-446655440000" -role tenant_admin -ttl 10m

  # Super admin (no tenant)
  tokengen access -role super_admin -json

Use "tokengen access -h" for all flags.`)
}

func generateAccessToken(rawUser, rawTenant string, role id.Role, ttl time.Duration, key, issuer, audience string, jsonOutput bool) {
	if !role.IsValid() {
		fail("unknown role %q", role)
	}

	uid := id.NewUserID()
	if rawUser != "" {
		parsed, err := id.ParseUserID(rawUser)
		if err != nil {
			fail("invalid user-id: %v", err)
		}
		uid = parsed
	}

	var tid id.TenantID
	switch {
	case role == id.RoleSuperAdmin && rawTenant != "":
		fail("super_admin tokens carry no tenant")
	case role != id.RoleSuperAdmin && rawTenant == "":
		fail("tenant-id is required for role %s", role)
	case rawTenant != "":
		parsed, err := id.ParseTenantID(rawTenant)
		if err != nil {
			fail("invalid tenant-id: %v", err)
		}
		tid = parsed
	}

	svc := jwttoken.NewJWTService(key, issuer, audience, ttl)
	token, expiresAt, err := svc.GenerateAccessToken(context.Background(), uid, tid, role)
	if err != nil {
		fail("generating token: %v", err)
	}

	if jsonOutput {
		claims := map[string]any{"user_id": uid.String(), "role": string(role), "tenant_id": nil}
		if !tid.IsNil() {
			claims["tenant_id"] = tid.String()
		}
		printJSON(tokenOutput{
			Token:     token,
			ExpiresAt: expiresAt,
			Claims:    claims,
			Usage:     map[string]string{"header": "Authorization: Bearer <token>"},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("User ID:     %s\n", uid)
	if !tid.IsNil() {
		fmt.Printf("Tenant ID:   %s\n", tid)
	}
	fmt.Printf("Role:        %s\n", role)
	fmt.Printf("Expires At:  %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/auth/me")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail("encoding JSON: %v", err)
	}
}
