package main

import (
	"github.com/joho/godotenv"

	"github.com/BlueVenn6/image-quality-checker/cmd"
)

func main() {
	// Pick up IMGCHECK_* variables from a local .env if one exists.
	_ = godotenv.Load()

	cmd.Execute()
}
