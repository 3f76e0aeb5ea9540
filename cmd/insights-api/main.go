package main

import (
	"log"

	"dealer-insights/internal/api"
	"dealer-insights/internal/api/handler"
	"dealer-insights/internal/config"
	"dealer-insights/internal/store"
	"dealer-insights/pkg/router"
	"dealer-insights/pkg/utils"
)

// @title Dealer Insights API
// @version 1.0
// @description Cleans dealership sales CSVs and answers analytics questions about them.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	files := utils.NewUploadManager(cfg.UploadDir)
	if err := files.EnsureDir(); err != nil {
		log.Fatal(err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	h := handler.New(st, files, cfg.MaxUploadSize)

	r := router.New()
	api.RegisterRoutes(r, h)
	r.Start(cfg.Addr)
}
