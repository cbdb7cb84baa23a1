package main

import (
	"deskhive/internal/members/handler"
	"deskhive/internal/members/repository"
	"deskhive/internal/members/service"
	"deskhive/internal/members/validator"
	"deskhive/pkg/app"
	"deskhive/pkg/client"
	"deskhive/pkg/config"
	"deskhive/pkg/health"
)

const ServiceName = "members"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Members service")

	mongoClient := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	memberValidator := validator.NewMemberValidator(cfg.Log)
	memberRepo := repository.NewMongoMemberRepository(cfg, mongoClient)
	memberService := service.NewMemberService(memberRepo, memberValidator, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewMemberHandler(memberService, cfg.Log),
		health.NewHandler(mongoClient, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		client.DisconnectMongo(cfg.Log, mongoClient)
	})
	serverApp.Run()
}
