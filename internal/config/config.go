package config

import (
	"flag"
	"os"
	"strings"
)

// Config holds the server settings.
type Config struct {
	Addr           string
	StaticDir      string
	AllowedOrigins []string
	GinMode        string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load parses args (without the program name). Flags default to the
// environment, then to built-in values.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("battleship", flag.ContinueOnError)
	addr := fs.String("addr", getenv("BATTLESHIP_ADDR", ":8080"), "listen address")
	static := fs.String("static", getenv("BATTLESHIP_STATIC_DIR", "web"), "directory of static files")
	origins := fs.String("allowed-origins", getenv("BATTLESHIP_ALLOWED_ORIGINS", "*"), "comma separated CORS origins for /api")
	ginMode := fs.String("gin-mode", getenv("GIN_MODE", "release"), "gin mode: debug, release or test")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:      *addr,
		StaticDir: *static,
		GinMode:   *ginMode,
	}
	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg, nil
}
