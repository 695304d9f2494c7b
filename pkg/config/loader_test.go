package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonecho/jsonecho/pkg/fsys"
)

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := fsys.NewResolver(dir)
	require.NoError(t, err)
	return NewLoader(r), dir
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderDefaults(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "db.json", `{}`)

	cfg, err := l.Load(context.Background(), "db.json")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultHostname, cfg.Hostname)
	assert.Equal(t, DefaultStaticRoute, cfg.StaticRoute)
	assert.Empty(t, cfg.StaticFolder)
	require.NotNil(t, cfg.Routes)
	assert.Zero(t, cfg.Routes.Len())
}

func TestLoaderFullDocument(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "db.json", `{
		"port": 8080,
		"hostname": "0.0.0.0",
		"routes": {
			"[POST] /api/users": {
				"description": "create a user",
				"headers": {"X-Mock": "1"},
				"response": {"status": 201, "body": {"created": true}}
			},
			"/api/users/:id": {
				"id_field": "uuid",
				"response": {"body": [{"uuid": "a"}]}
			}
		}
	}`)

	cfg, err := l.Load(context.Background(), "db.json")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Hostname)
	assert.Equal(t, []string{"[POST] /api/users", "/api/users/:id"}, cfg.Routes.Keys())

	post, ok := cfg.Routes.Get("[POST] /api/users")
	require.True(t, ok)
	assert.Equal(t, "create a user", post.Description)
	assert.Equal(t, map[string]string{"X-Mock": "1"}, post.Headers)
	assert.Equal(t, 201, post.Response.Inline().Status)

	byID, ok := cfg.Routes.Get("/api/users/:id")
	require.True(t, ok)
	assert.Equal(t, "uuid", byID.IDField)
	// Status defaulted where the document omitted it.
	assert.Equal(t, DefaultStatus, byID.Response.Inline().Status)
}

func TestLoaderYAML(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "db.yaml", "port: 4000\nroutes:\n  /ping:\n    response:\n      body: pong\n")

	cfg, err := l.Load(context.Background(), "db.yaml")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	route, ok := cfg.Routes.Get("/ping")
	require.True(t, ok)
	assert.Equal(t, "pong", route.Response.Inline().Body)
}

func TestLoaderMalformed(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "db.json", `{"port": 3001,`)

	_, err := l.Load(context.Background(), "db.json")

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Path, "db.json")
}

func TestLoaderSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: `{"port": 70000}`},
		{name: "port not an integer", content: `{"port": "3001"}`},
		{name: "empty hostname", content: `{"hostname": ""}`},
		{name: "routes not an object", content: `{"routes": []}`},
		{name: "route not an object", content: `{"routes": {"/x": "nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, dir := newTestLoader(t)
			writeConfig(t, dir, "db.json", tt.content)

			_, err := l.Load(context.Background(), "db.json")

			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr)
		})
	}
}

func TestLoaderInvalidRoutes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{
			name:    "unknown bracketed method",
			content: `{"routes": {"[FETCH] /x": {"response": {"body": 1}}}}`,
			reason:  "unknown HTTP method",
		},
		{
			name:    "unknown definition method",
			content: `{"routes": {"/x": {"method": "YEET", "response": {"body": 1}}}}`,
			reason:  "unknown HTTP method",
		},
		{
			name:    "missing response body",
			content: `{"routes": {"/x": {"response": {"status": 200}}}}`,
			reason:  "response body is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, dir := newTestLoader(t)
			writeConfig(t, dir, "db.json", tt.content)

			_, err := l.Load(context.Background(), "db.json")

			var invalid *InvalidRouteError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Reason, tt.reason)
		})
	}
}

func TestLoaderExternalResponse(t *testing.T) {
	t.Run("resolved and wrapped", func(t *testing.T) {
		l, dir := newTestLoader(t)
		writeConfig(t, dir, "users.json", `[{"id": 1, "name": "A"}, {"id": 2, "name": "B"}]`)
		writeConfig(t, dir, "db.json", `{"routes": {"/api/users": {"response": "users.json"}}}`)

		cfg, err := l.Load(context.Background(), "db.json")
		require.NoError(t, err)

		route, ok := cfg.Routes.Get("/api/users")
		require.True(t, ok)
		require.True(t, route.Response.IsInline())
		assert.Equal(t, DefaultStatus, route.Response.Inline().Status)

		body, ok := route.Response.Inline().Body.([]any)
		require.True(t, ok)
		assert.Len(t, body, 2)
	})

	t.Run("scalar root is wrapped verbatim", func(t *testing.T) {
		l, dir := newTestLoader(t)
		writeConfig(t, dir, "greeting.json", `"hello"`)
		writeConfig(t, dir, "db.json", `{"routes": {"/greet": {"response": "greeting.json"}}}`)

		cfg, err := l.Load(context.Background(), "db.json")
		require.NoError(t, err)

		route, _ := cfg.Routes.Get("/greet")
		assert.Equal(t, "hello", route.Response.Inline().Body)
	})

	t.Run("missing file aborts the load", func(t *testing.T) {
		l, dir := newTestLoader(t)
		writeConfig(t, dir, "db.json", `{"routes": {
			"/ok": {"response": {"body": 1}},
			"/broken": {"response": "missing.json"}
		}}`)

		_, err := l.Load(context.Background(), "db.json")

		var extErr *ExternalResponseError
		require.ErrorAs(t, err, &extErr)
		assert.Equal(t, "/broken", extErr.Key)
		assert.Equal(t, "missing.json", extErr.Path)

		var notFound *fsys.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("malformed file aborts the load", func(t *testing.T) {
		l, dir := newTestLoader(t)
		writeConfig(t, dir, "bad.json", `{not json`)
		writeConfig(t, dir, "db.json", `{"routes": {"/x": {"response": "bad.json"}}}`)

		_, err := l.Load(context.Background(), "db.json")

		var extErr *ExternalResponseError
		require.ErrorAs(t, err, &extErr)

		var malformed *MalformedError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestLoaderSaveRoundTrip(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "users.json", `[{"id": 1}]`)
	writeConfig(t, dir, "db.json", `{
		"port": 8080,
		"routes": {
			"[POST] /api/users": {"response": {"status": 201, "body": {"ok": true}}},
			"/api/users": {"response": "users.json"}
		}
	}`)

	ctx := context.Background()
	cfg, err := l.Load(ctx, "db.json")
	require.NoError(t, err)

	require.NoError(t, l.Save(ctx, "resolved.json", cfg))

	// Loading the saved document yields the same configuration: every
	// reference was written inline, so nothing is left to resolve.
	again, err := l.Load(ctx, "resolved.json")
	require.NoError(t, err)

	assert.Equal(t, cfg.Port, again.Port)
	assert.Equal(t, cfg.Routes.Keys(), again.Routes.Keys())

	list, _ := again.Routes.Get("/api/users")
	assert.False(t, list.Response.IsFileRef())
	assert.Equal(t, []any{map[string]any{"id": float64(1)}}, list.Response.Inline().Body)
}

func TestLoaderSaveYAML(t *testing.T) {
	l, dir := newTestLoader(t)
	writeConfig(t, dir, "db.json", `{"routes": {"/ping": {"response": {"body": "pong"}}}}`)

	ctx := context.Background()
	cfg, err := l.Load(ctx, "db.json")
	require.NoError(t, err)

	require.NoError(t, l.Save(ctx, "out.yaml", cfg))

	again, err := l.Load(ctx, "out.yaml")
	require.NoError(t, err)

	route, ok := again.Routes.Get("/ping")
	require.True(t, ok)
	assert.Equal(t, "pong", route.Response.Inline().Body)
}
