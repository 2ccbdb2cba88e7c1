package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Settings are the process-level options of the server binaries.
type Settings struct {
	Addr        string
	ProfilePath string
	ParamsPath  string
	StaticDir   string
	CORSOrigins []string
	Production  bool

	MQTTBroker      string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
}

// LoadEnv reads .env files (if present) into the process environment.
// Variables that are already set are left alone.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: loading %s: %v", f, err)
		}
	}
}

// SettingsFromEnv builds Settings from the environment, applying defaults.
func SettingsFromEnv() Settings {
	return Settings{
		Addr:            getenv("SOLARSIM_ADDR", ":8080"),
		ProfilePath:     getenv("SOLARSIM_PROFILE", "data/profile.csv"),
		ParamsPath:      getenv("SOLARSIM_PARAMS_FILE", "data/params.json"),
		StaticDir:       os.Getenv("SOLARSIM_STATIC_DIR"),
		CORSOrigins:     splitList(getenv("SOLARSIM_CORS_ORIGINS", "*")),
		Production:      strings.EqualFold(os.Getenv("API_ENV"), "production"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenv("MQTT_TOPIC_PREFIX", "solarsim"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
