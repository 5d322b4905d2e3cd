package main

import (
	"clanwatch/internal/di"
	"clanwatch/internal/structures"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "path to the YAML config file")
	debug := flag.BoolP("debug", "d", false, "log to stdout at debug level")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "clanwatch: %s\n", err)
		os.Exit(1)
	}
}
