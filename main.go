package main

import (
	"github.com/joho/godotenv"

	"github.com/readycatholic/readycatholic/cmd"
)

// Populated by the release build via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
