package main

import (
	"deskhive/internal/resources/handler"
	"deskhive/internal/resources/repository"
	"deskhive/internal/resources/service"
	"deskhive/internal/resources/validator"
	"deskhive/pkg/app"
	"deskhive/pkg/client"
	"deskhive/pkg/config"
	"deskhive/pkg/health"
)

const ServiceName = "resources"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Resources service")

	mongoClient := client.ConnectMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	resourceValidator := validator.NewResourceValidator(cfg.Log)
	resourceRepo := repository.NewMongoResourceRepository(cfg, mongoClient)
	resourceService := service.NewResourceService(resourceRepo, resourceValidator, cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewResourceHandler(resourceService, cfg.Log),
		health.NewHandler(mongoClient, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		client.DisconnectMongo(cfg.Log, mongoClient)
	})
	serverApp.Run()
}
