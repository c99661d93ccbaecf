package main

import (
	"os"

	"github.com/EstateCMS/EstateCMS/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
