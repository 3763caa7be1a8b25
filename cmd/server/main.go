package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Sanzai-X/enlistment-service/internal/config"
	"github.com/Sanzai-X/enlistment-service/internal/database"
	"github.com/Sanzai-X/enlistment-service/internal/handler"
	"github.com/Sanzai-X/enlistment-service/internal/queue"
	"github.com/Sanzai-X/enlistment-service/internal/repository"
	"github.com/Sanzai-X/enlistment-service/internal/router"
	"github.com/Sanzai-X/enlistment-service/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	defer rdb.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	subjects := repository.NewSubjectRepo(db)
	rooms := repository.NewRoomRepo(db)
	faculty := repository.NewFacultyRepo(db)
	students := repository.NewStudentRepo(db)
	sections := repository.NewSectionRepo(db)

	enlistSvc := service.NewEnlistmentService(db, sections, students, queue.PublishEnlistmentCompleted)

	// The consumer drains enlistment events into the audit log for as long
	// as the process runs.
	go func() {
		if err := queue.StartEnlistmentConsumer(); err != nil {
			log.Printf("enlistment consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, rdb, router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens, students),
		Enlistment: handler.NewEnlistmentHandler(enlistSvc, students),
		Catalog:    handler.NewCatalogHandler(sections, subjects),
		Registrar:  handler.NewRegistrarHandler(subjects, rooms, faculty, students, sections),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
