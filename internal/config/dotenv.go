package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotEnvFiles lists the env files to read for appEnv, most specific first
func dotEnvFiles(appEnv string) []string {
	files := make([]string, 0, 4)
	if appEnv != "" {
		files = append(files, ".env."+appEnv+".local")
	}
	files = append(files, ".env.local")
	if appEnv != "" {
		files = append(files, ".env."+appEnv)
	}
	return append(files, ".env")
}

// LoadDotEnv reads the dotenv files present in the working directory and
// returns their names. Variables already in the process environment are kept,
// and a value from an earlier file shadows the same key in a later one.
func LoadDotEnv() []string {
	var found []string
	for _, name := range dotEnvFiles(os.Getenv("APP_ENV")) {
		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, name)
	}
	if len(found) == 0 {
		return nil
	}
	if err := godotenv.Load(found...); err != nil {
		return nil
	}
	return found
}
