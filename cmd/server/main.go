package main

import (
	"github.com/spockNinja/web-template/config"
	"github.com/spockNinja/web-template/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
