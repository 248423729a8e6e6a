package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvVar names the variable that can point to an alternative .env file.
const DotEnvVar = "DOTENV_FILE"

// LoadEnv exports variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnv() error {
	path := os.Getenv(DotEnvVar)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
