package main

import (
	"os"

	"travlint/pkg/travis"
)

// manifestPath returns the manifest filename from the positional args,
// defaulting to the conventional name in the current directory.
func manifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ".travis.yml"
}

func loadManifest(filename string) (*travis.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return travis.Parse(data)
}
