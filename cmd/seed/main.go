package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"member-grants-platform/internal/config"
	"member-grants-platform/internal/domain/model"
	pg "member-grants-platform/internal/infra/db/postgres"
	"member-grants-platform/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "", "seed a reviewer admin with this email")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)
	grantRepo := pg.NewGrantRepo(pool)
	adminRepo := pg.NewAdminRepo(pool)
	planUC := usecase.NewPlanUseCase(planRepo)

	// If plans already exist, leave the catalogue alone.
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
	} else {
		seed := []struct {
			Name     string
			Price    int64
			Interval model.BillingInterval
			Features []string
		}{
			{"Basic", 900, model.IntervalMonthly, []string{"member directory", "newsletter"}},
			{"Supporter", 2500, model.IntervalMonthly, []string{"member directory", "newsletter", "grant applications"}},
			{"Patron", 24_000, model.IntervalYearly, []string{"member directory", "newsletter", "grant applications", "priority support"}},
		}
		for _, s := range seed {
			p, err := planUC.Create(ctx, s.Name, s.Price, "USD", s.Interval, s.Features)
			if err != nil {
				log.Fatalf("create plan %q: %v", s.Name, err)
			}
			fmt.Printf("seeded plan: %s (id=%s, price=%d, interval=%s)\n", p.Name, p.ID, p.PriceCents, p.Interval)
		}
	}

	// A sample grant so the listing is not empty on first boot.
	grants, err := grantRepo.List(ctx, nil, false)
	if err != nil {
		log.Fatalf("list grants: %v", err)
	}
	if len(grants) == 0 {
		g, err := model.NewGrant("", "Community Project Grant", 500_000, time.Now().AddDate(0, 3, 0))
		if err != nil {
			log.Fatalf("new grant: %v", err)
		}
		g.Organization = "Members Foundation"
		g.Category = "community"
		g.Featured = true
		if err := grantRepo.Save(ctx, nil, g); err != nil {
			log.Fatalf("save grant: %v", err)
		}
		fmt.Printf("seeded grant: %s (id=%s)\n", g.Title, g.ID)
	}

	if *adminEmail != "" {
		if _, err := adminRepo.FindByEmail(ctx, nil, *adminEmail); err == nil {
			fmt.Printf("admin %s already present. No changes.\n", *adminEmail)
		} else {
			a, err := model.NewAdmin("", *adminEmail, "Seed Reviewer", "reviewer")
			if err != nil {
				log.Fatalf("new admin: %v", err)
			}
			if err := adminRepo.Save(ctx, nil, a); err != nil {
				log.Fatalf("save admin: %v", err)
			}
			fmt.Printf("seeded admin: %s (id=%s)\n", a.Email, a.ID)
		}
	}

	fmt.Println("Seeding complete.")
}
