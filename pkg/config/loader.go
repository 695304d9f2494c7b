package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsonecho/jsonecho/internal/matching"
	"github.com/jsonecho/jsonecho/pkg/fsys"
	"github.com/jsonecho/jsonecho/pkg/logging"
)

// Loader reads, validates, and writes configuration documents through
// a fsys.Resolver. Every Load returns a fresh Config with all external
// response references already resolved; callers never observe a
// half-resolved configuration.
type Loader struct {
	fs  *fsys.Resolver
	log *slog.Logger
}

// NewLoader creates a Loader over the given resolver.
func NewLoader(fs *fsys.Resolver) *Loader {
	return &Loader{fs: fs, log: logging.Nop()}
}

// SetLogger sets the logger.
func (l *Loader) SetLogger(log *slog.Logger) {
	if log != nil {
		l.log = log
	}
}

// Resolver returns the underlying filesystem resolver.
func (l *Loader) Resolver() *fsys.Resolver { return l.fs }

// Load reads and parses the configuration at path, validates it, and
// resolves every external response reference. Validation is fail-fast
// and whole-document: the first violation aborts the load.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	data, err := l.fs.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	cfg, err := l.parse(path, data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := validateRoutes(cfg); err != nil {
		return nil, err
	}

	if err := l.resolveExternal(ctx, cfg); err != nil {
		return nil, err
	}

	l.log.Debug("configuration loaded",
		"path", path,
		"routes", cfg.Routes.Len(),
		"port", cfg.Port,
		"hostname", cfg.Hostname)

	return cfg, nil
}

// Save serializes cfg and writes it via the resolver. Resolved bodies
// are written inline; external references are never re-externalized.
// The format follows the file extension: YAML for .yaml/.yml, JSON
// otherwise.
func (l *Loader) Save(ctx context.Context, path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	var data []byte
	var err error
	if isYAMLPath(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := l.fs.SaveFile(ctx, path, data); err != nil {
		return err
	}

	l.log.Debug("configuration saved", "path", path, "bytes", len(data))
	return nil
}

// parse decodes the raw document, checking it against the structural
// schema first so decoding only sees well-shaped input.
func (l *Loader) parse(path string, data []byte) (*Config, error) {
	var doc any
	var cfg Config

	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &MalformedError{Path: path, Err: err}
		}
		if err := validateSchema(doc); err != nil {
			return nil, &SchemaError{Path: path, Err: err}
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &MalformedError{Path: path, Err: err}
		}
		return &cfg, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	if err := validateSchema(doc); err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	return &cfg, nil
}

// resolveExternal replaces every file-reference response with the
// parsed contents of the referenced file, wrapped as an inline
// response with the default status. Resolution happens exactly once,
// here; models never re-read the file.
func (l *Loader) resolveExternal(ctx context.Context, cfg *Config) error {
	for _, key := range cfg.Routes.Keys() {
		route, _ := cfg.Routes.Get(key)
		if !route.Response.IsFileRef() {
			continue
		}

		ref := route.Response.FileRef()
		data, err := l.fs.LoadFile(ctx, ref)
		if err != nil {
			return &ExternalResponseError{Key: key, Path: ref, Err: err}
		}

		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return &ExternalResponseError{Key: key, Path: ref, Err: &MalformedError{Path: ref, Err: err}}
		}

		route.Response = NewInlineResponse(DefaultStatus, body)
		l.log.Debug("external response resolved", "route", key, "file", ref)
	}
	return nil
}

// applyDefaults fills the documented defaults on a freshly parsed
// configuration.
func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Hostname == "" {
		cfg.Hostname = DefaultHostname
	}
	if cfg.StaticRoute == "" {
		cfg.StaticRoute = DefaultStaticRoute
	}
	if cfg.Routes == nil {
		cfg.Routes = NewRouteMap()
	}
	for _, key := range cfg.Routes.Keys() {
		route, _ := cfg.Routes.Get(key)
		if inline := route.Response.Inline(); inline != nil && inline.Status == 0 {
			inline.Status = DefaultStatus
		}
	}
}

// validateRoutes checks the per-route invariants the schema cannot
// express: a normalizable key and method, and a present response body.
func validateRoutes(cfg *Config) error {
	for _, key := range cfg.Routes.Keys() {
		route, _ := cfg.Routes.Get(key)

		if _, err := matching.NormalizeKey(key, route.Method); err != nil {
			return &InvalidRouteError{Key: key, Reason: err.Error()}
		}

		if route.Response.IsZero() {
			return &InvalidRouteError{Key: key, Reason: "missing response"}
		}
		if inline := route.Response.Inline(); inline != nil {
			if route.Response.bodyAbsent {
				return &InvalidRouteError{Key: key, Reason: "response body is required"}
			}
			if inline.Status < 100 || inline.Status > 599 {
				return &InvalidRouteError{Key: key, Reason: fmt.Sprintf("invalid status %d, must be 100-599", inline.Status)}
			}
		}
	}
	return nil
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
