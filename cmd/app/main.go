package main

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-archive-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
