// Package config loads the server configuration from the environment and the
// declarative entity registry from YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gencrud-dev/gencrud/internal/crud"
)

// Config holds the server's runtime settings.
type Config struct {
	// Addr is the listen address of the console API.
	Addr string
	// UpstreamURL is the base URL of the backend generic-entity API.
	UpstreamURL string
	// UpstreamToken seeds the bearer token; UpstreamRefreshToken and
	// UpstreamRefreshURL enable the 401 refresh-and-retry path.
	UpstreamToken        string
	UpstreamRefreshToken string
	UpstreamRefreshURL   string

	// EntitiesFile is the YAML entity registry; TitlesFile the optional
	// label dictionary; EventsFile the optional sink configuration.
	EntitiesFile string
	TitlesFile   string
	EventsFile   string

	// HumanizeTitles expands unknown camelCase field names into spaced
	// labels; off by default so unknown names come back verbatim.
	HumanizeTitles bool
	// CasbinPolicy is an optional casbin CSV policy file. When unset,
	// string permission codes are accepted as placeholders.
	CasbinPolicy string

	// RedisURL, when set, mirrors the metadata cache in Redis.
	RedisURL string
	CacheTTL time.Duration
	// WarmupCron schedules periodic metadata warmup for all registered
	// entities ("" disables it).
	WarmupCron string

	AllowedOrigins string
}

// FromEnv builds a Config from the environment with sane defaults.
func FromEnv() (Config, error) {
	c := Config{
		Addr:                 getenv("ADDR", ":8080"),
		UpstreamURL:          os.Getenv("UPSTREAM_URL"),
		UpstreamToken:        os.Getenv("UPSTREAM_TOKEN"),
		UpstreamRefreshToken: os.Getenv("UPSTREAM_REFRESH_TOKEN"),
		UpstreamRefreshURL:   os.Getenv("UPSTREAM_REFRESH_URL"),
		EntitiesFile:         os.Getenv("ENTITIES_CONFIG"),
		TitlesFile:           os.Getenv("TITLES_CONFIG"),
		EventsFile:           os.Getenv("CRUD_EVENTS_CONFIG"),
		HumanizeTitles:       getenvBool("HUMANIZE_TITLES"),
		CasbinPolicy:         os.Getenv("CASBIN_POLICY"),
		RedisURL:             os.Getenv("REDIS_URL"),
		WarmupCron:           os.Getenv("WARMUP_CRON"),
		AllowedOrigins:       getenv("ALLOWED_ORIGINS", "http://localhost:5173"),
	}
	c.CacheTTL = 5 * time.Minute
	if v := os.Getenv("FIELDS_CACHE_TTL_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("config: FIELDS_CACHE_TTL_SECONDS: %w", err)
		}
		c.CacheTTL = time.Duration(sec) * time.Second
	}
	if c.UpstreamURL == "" {
		return c, fmt.Errorf("config: UPSTREAM_URL is required")
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

// Registry maps entity class names to their declarative configuration and
// lowercase batch names back to class names.
type Registry struct {
	ByClass map[string]crud.EntityConfig
	byName  map[string]string
}

// entitiesFile is the on-disk shape of the registry.
type entitiesFile struct {
	Entities map[string]crud.EntityConfig `yaml:"entities"`
}

// LoadEntities reads the registry from path. Unknown YAML keys are rejected
// so override typos fail loudly instead of merging silently.
func LoadEntities(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read entities: %w", err)
	}
	var f entitiesFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: parse entities: %w", err)
	}
	r := &Registry{ByClass: map[string]crud.EntityConfig{}, byName: map[string]string{}}
	for className, ec := range f.Entities {
		if ec.EntityClassName == "" {
			ec.EntityClassName = className
		}
		if ec.EntityName == "" {
			return nil, fmt.Errorf("config: entity %s: entityName is required", className)
		}
		r.ByClass[ec.EntityClassName] = ec
		r.byName[ec.EntityName] = ec.EntityClassName
	}
	return r, nil
}

// Class looks up an entity by class name.
func (r *Registry) Class(className string) (crud.EntityConfig, bool) {
	ec, ok := r.ByClass[className]
	return ec, ok
}

// Name looks up an entity by its lowercase batch name.
func (r *Registry) Name(entityName string) (crud.EntityConfig, bool) {
	className, ok := r.byName[entityName]
	if !ok {
		return crud.EntityConfig{}, false
	}
	return r.Class(className)
}

// ClassNames lists all registered class names.
func (r *Registry) ClassNames() []string {
	out := make([]string, 0, len(r.ByClass))
	for name := range r.ByClass {
		out = append(out, name)
	}
	return out
}
