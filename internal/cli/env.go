package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvLoader loads .env files with a predictable override order.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	value := fs.String("env", defaultPath, description)
	return &EnvLoader{
		value:       value,
		defaultPath: defaultPath,
	}
}

// Load resolves and loads environment variables. PICK_ENGINE_ENV_FILE wins
// over the flag, then the flag value, its basename, and finally the default.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	log.SetOutput(os.Stderr)

	if custom := strings.TrimSpace(os.Getenv("PICK_ENGINE_ENV_FILE")); custom != "" {
		if err := godotenv.Overload(custom); err == nil {
			log.Printf("Loaded environment from PICK_ENGINE_ENV_FILE: %s", custom)
			return custom, nil
		}
		log.Printf("Warning: failed to load PICK_ENGINE_ENV_FILE=%s", custom)
	}

	candidates := []string{strings.TrimSpace(derefString(l.value))}
	if candidates[0] == "" {
		candidates[0] = l.defaultPath
	}
	if base := filepath.Base(candidates[0]); base != "" && base != candidates[0] {
		candidates = append(candidates, base)
	}
	if candidates[0] != l.defaultPath {
		candidates = append(candidates, l.defaultPath)
	}

	for _, path := range candidates {
		if err := godotenv.Overload(path); err == nil {
			log.Printf("Loaded environment from: %s", path)
			return path, nil
		}
	}

	return "", fmt.Errorf("failed to load env file from %s", candidates[0])
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
