package main

import (
	"github.com/miniflavors/checkout/internal/app"
	"github.com/miniflavors/checkout/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
