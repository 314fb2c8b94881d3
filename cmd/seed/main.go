package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"fms/internal/config"
	"fms/internal/db"
	"fms/internal/model"
	"fms/internal/repository"
)

// SeedEntity is one entity with its revenue categories in the seed file.
type SeedEntity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Revenues    []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"revenues"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed <entities.json>")
	}

	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Entity{}, &model.Revenue{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	payload, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seedEntities []SeedEntity
	if err := json.Unmarshal(payload, &seedEntities); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}
	log.Printf("Loaded %d entities from %s", len(seedEntities), os.Args[1])

	ctx := context.Background()
	entityRepo := repository.NewEntityRepository(gormDB)
	revenueRepo := repository.NewRevenueRepository(gormDB)

	created := 0
	for _, item := range seedEntities {
		entity, err := findEntityByName(ctx, gormDB, item.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up entity %q: %v", item.Name, err)
		}
		if entity == nil {
			entity = &model.Entity{
				Name:        item.Name,
				Type:        item.Type,
				Description: item.Description,
				IsActive:    true,
			}
			if err := entityRepo.Create(ctx, entity); err != nil {
				log.Fatalf("Failed to create entity %q: %v", item.Name, err)
			}
			created++
		}

		existing, err := revenueRepo.ListByEntity(ctx, entity.ID)
		if err != nil {
			log.Fatalf("Failed to list revenues for %q: %v", item.Name, err)
		}
		codes := make(map[string]bool, len(existing))
		for _, rev := range existing {
			codes[rev.Code] = true
		}

		for _, rev := range item.Revenues {
			if codes[rev.Code] {
				continue
			}
			if err := revenueRepo.Create(ctx, &model.Revenue{
				EntityID: entity.ID,
				Name:     rev.Name,
				Code:     rev.Code,
			}); err != nil {
				log.Fatalf("Failed to create revenue %q: %v", rev.Code, err)
			}
		}
	}

	log.Printf("Seed complete: %d new entities", created)
}

func findEntityByName(ctx context.Context, gormDB *gorm.DB, name string) (*model.Entity, error) {
	var entity model.Entity
	if err := gormDB.WithContext(ctx).Where("name = ?", name).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}
