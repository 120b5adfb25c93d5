package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv loads dotenv (when present) into the process environment and then
// overlays the variables the hosted deployment sets. Variables already present
// in the environment win over the file.
func parseEnv(config *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	if port, ok := lookup("PORT"); ok {
		config.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
	}
	setString(&config.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&config.CloudinaryAPIKey, "CLOUDINARY_API_KEY")
	setString(&config.CloudinaryAPISecret, "CLOUDINARY_API_SECRET")
	setString(&config.GroqAPIKey, "GROQ_API_KEY")
	setString(&config.ImageBackend, "IMAGE_BACKEND")
	setString(&config.LogLevel, "LOG_LEVEL")

	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}
