package main

import (
	"os"

	"github.com/Ducky705/Live-Pick-Scraper/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
