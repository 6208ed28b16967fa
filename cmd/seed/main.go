package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"ownerdesk/internal/config"
	"ownerdesk/internal/database"
	"ownerdesk/internal/devapi"
	jwtsvc "ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/logger"
)

func main() {
	email := flag.String("email", "owner@ownerdesk.local", "owner email")
	password := flag.String("password", "owner123", "owner password")
	name := flag.String("business", "Demo Studio", "business display name")
	slug := flag.String("slug", "demo-studio", "business slug")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog, err := logger.New(false, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	repo := devapi.NewRepository(db, "/api/files")

	log.Println("Running AutoMigrate...")
	if err := repo.Migrate(); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	res, err := devapi.Seed(context.Background(), repo, devapi.SeedOwner{
		Email:        *email,
		Password:     *password,
		BusinessName: *name,
		BusinessSlug: *slug,
		PhoneNumber:  "+10000000000",
	})
	if err != nil {
		log.Fatal("Seed failed:", err)
	}

	token, err := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(res.MerchantID, res.BusinessID, jwtsvc.RoleOwner)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Seed completed")
	fmt.Printf("  owner:       %s / %s\n", *email, *password)
	fmt.Printf("  business id: %d\n", res.BusinessID)
	fmt.Printf("  token:       %s\n", token)
}
