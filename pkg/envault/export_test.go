package envault_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/envault/pkg/envault"
)

// exportHandler serves the export endpoint with a fixed payload and counts
// how many export fetches actually reached the network.
type exportHandler struct {
	payload string
	exports atomic.Int64
}

func (h *exportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/export") {
		h.exports.Add(1)
		_, _ = w.Write([]byte(h.payload))
		return
	}
	// Mutations succeed with a minimal body.
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(`{"data":{"id":"sec_1","key":"A","version":1}}`))
}

const exportPayload = `{"secrets":[
	{"id":"sec_1","key":"DATABASE_URL","version":2,"value":"postgres://prod"},
	{"id":"sec_2","key":"API_KEY","version":1,"value":"sk-123","inherited_from":"production"}
]}`

func TestExportSecrets(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{}, handler)

	secrets, err := client.ExportSecrets(context.Background(), "proj_1", "staging")
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, "postgres://prod", secrets[0].Value)
	assert.Equal(t, "production", secrets[1].InheritedFrom)
}

func TestExportCacheWithinTTL(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{CacheTTL: 300 * time.Second}, handler)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.ExportSecrets(ctx, "proj_1", "staging")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), handler.exports.Load(), "repeated exports within the TTL should hit the network once")
}

func TestExportCacheExpiry(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{CacheTTL: 30 * time.Millisecond}, handler)
	ctx := context.Background()

	_, err := client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	_, err = client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	assert.Equal(t, int64(1), handler.exports.Load())

	time.Sleep(50 * time.Millisecond)

	_, err = client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	assert.Equal(t, int64(2), handler.exports.Load(), "an expired entry must be refetched")
}

func TestExportCacheDisabledByDefault(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{}, handler)
	ctx := context.Background()

	_, err := client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	_, err = client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)

	assert.Equal(t, int64(2), handler.exports.Load())
}

func TestExportCacheKeyedByPair(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{CacheTTL: time.Minute}, handler)
	ctx := context.Background()

	_, err := client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	_, err = client.ExportSecrets(ctx, "proj_1", "production")
	require.NoError(t, err)
	_, err = client.ExportSecrets(ctx, "proj_2", "staging")
	require.NoError(t, err)

	assert.Equal(t, int64(3), handler.exports.Load())
}

func TestExportCacheInvalidatedByMutations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*envault.Client) error
	}{
		{
			name: "create_secret",
			mutate: func(c *envault.Client) error {
				_, err := c.CreateSecret(context.Background(), "proj_1", "staging", "NEW", "v", "")
				return err
			},
		},
		{
			name: "update_secret",
			mutate: func(c *envault.Client) error {
				_, err := c.UpdateSecret(context.Background(), "proj_1", "staging", "A", "v", "")
				return err
			},
		},
		{
			name: "delete_secret",
			mutate: func(c *envault.Client) error {
				return c.DeleteSecret(context.Background(), "proj_1", "staging", "A")
			},
		},
		{
			name: "bulk_import",
			mutate: func(c *envault.Client) error {
				_, err := c.BulkImport(context.Background(), "proj_1", "staging", []envault.BulkSecret{{Key: "A", Value: "1"}}, false)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := &exportHandler{payload: exportPayload}
			client := newTestClient(t, envault.Config{CacheTTL: time.Hour}, handler)
			ctx := context.Background()

			_, err := client.ExportSecrets(ctx, "proj_1", "staging")
			require.NoError(t, err)

			require.NoError(t, tt.mutate(client))

			_, err = client.ExportSecrets(ctx, "proj_1", "staging")
			require.NoError(t, err)
			assert.Equal(t, int64(2), handler.exports.Load(), "a mutation must force the next export to refetch")
		})
	}
}

func TestExportCacheMutationOtherEnvironmentUntouched(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{CacheTTL: time.Hour}, handler)
	ctx := context.Background()

	_, err := client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)

	_, err = client.CreateSecret(ctx, "proj_1", "production", "NEW", "v", "")
	require.NoError(t, err)

	_, err = client.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	assert.Equal(t, int64(1), handler.exports.Load())
}

func TestExportCacheManualInvalidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		invalidate func(*envault.Client)
	}{
		{"pair", func(c *envault.Client) { c.InvalidateCache("proj_1", "staging") }},
		{"project", func(c *envault.Client) { c.InvalidateProjectCache("proj_1") }},
		{"all", func(c *envault.Client) { c.ClearCache() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := &exportHandler{payload: exportPayload}
			client := newTestClient(t, envault.Config{CacheTTL: time.Hour}, handler)
			ctx := context.Background()

			_, err := client.ExportSecrets(ctx, "proj_1", "staging")
			require.NoError(t, err)

			tt.invalidate(client)

			_, err = client.ExportSecrets(ctx, "proj_1", "staging")
			require.NoError(t, err)
			assert.Equal(t, int64(2), handler.exports.Load())
		})
	}
}

func TestExportCacheIsolatedPerClient(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	newClient := func(token string) *envault.Client {
		client, err := envault.New(envault.Config{
			Token:    token,
			BaseURL:  server.URL,
			CacheTTL: time.Hour,
		})
		require.NoError(t, err)
		return client
	}

	a := newClient("token-a")
	b := newClient("token-a") // same credentials, still isolated
	ctx := context.Background()

	_, err := a.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)
	_, err = b.ExportSecrets(ctx, "proj_1", "staging")
	require.NoError(t, err)

	assert.Equal(t, int64(2), handler.exports.Load(), "clients must never share cache entries")
}

func TestExportSecretsConcurrent(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{CacheTTL: time.Minute}, handler)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := "staging"
			if i%2 == 0 {
				env = "production"
			}
			_, err := client.ExportSecrets(context.Background(), "proj_1", env)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestExportSecretsAsMap(t *testing.T) {
	t.Parallel()

	t.Run("basic", func(t *testing.T) {
		t.Parallel()

		handler := &exportHandler{payload: exportPayload}
		client := newTestClient(t, envault.Config{}, handler)

		values, err := client.ExportSecretsAsMap(context.Background(), "proj_1", "staging")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"DATABASE_URL": "postgres://prod",
			"API_KEY":      "sk-123",
		}, values)
	})

	t.Run("duplicate_keys_last_wins", func(t *testing.T) {
		t.Parallel()

		handler := &exportHandler{payload: `{"secrets":[
			{"id":"sec_1","key":"A","version":1,"value":"first"},
			{"id":"sec_2","key":"A","version":1,"value":"second"}
		]}`}
		client := newTestClient(t, envault.Config{}, handler)

		values, err := client.ExportSecretsAsMap(context.Background(), "proj_1", "staging")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"A": "second"}, values)
	})
}

// recordingEnvWriter captures LoadEnv writes instead of touching the real
// process environment.
type recordingEnvWriter struct {
	mu     sync.Mutex
	values map[string]string
}

func (w *recordingEnvWriter) Setenv(key, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.values == nil {
		w.values = make(map[string]string)
	}
	w.values[key] = value
	return nil
}

func TestLoadEnv(t *testing.T) {
	t.Parallel()

	writer := &recordingEnvWriter{values: map[string]string{"API_KEY": "stale"}}
	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{EnvWriter: writer}, handler)

	count, err := client.LoadEnv(context.Background(), "proj_1", "staging")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "postgres://prod", writer.values["DATABASE_URL"])
	assert.Equal(t, "sk-123", writer.values["API_KEY"], "existing variables are overwritten")
}

func TestLoadEnvWriterFailure(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: exportPayload}
	client := newTestClient(t, envault.Config{EnvWriter: failingEnvWriter{}}, handler)

	_, err := client.LoadEnv(context.Background(), "proj_1", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set")
}

type failingEnvWriter struct{}

func (failingEnvWriter) Setenv(string, string) error {
	return fmt.Errorf("read-only environment")
}

func TestGenerateEnvFile(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: `{"secrets":[
		{"id":"s1","key":"PLAIN","version":1,"value":"no_special"},
		{"id":"s2","key":"PRICE","version":1,"value":"price=$100"},
		{"id":"s3","key":"GREETING","version":1,"value":"hello world"},
		{"id":"s4","key":"QUOTED","version":1,"value":"say \"hello\""},
		{"id":"s5","key":"MULTI","version":1,"value":"line1\nline2"}
	]}`}
	client := newTestClient(t, envault.Config{}, handler)

	content, err := client.GenerateEnvFile(context.Background(), "proj_1", "staging")
	require.NoError(t, err)

	lines := strings.Split(content, "\n")
	require.GreaterOrEqual(t, len(lines), 8)

	assert.Equal(t, "# Generated by envault", lines[0])
	assert.Equal(t, "# Environment: staging", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "# Generated at: "))

	assert.Equal(t, "PLAIN=no_special", lines[3])
	assert.Equal(t, `PRICE="price=\$100"`, lines[4])
	assert.Equal(t, `GREETING="hello world"`, lines[5])
	assert.Equal(t, `QUOTED="say \"hello\""`, lines[6])
	assert.Equal(t, `MULTI="line1\nline2"`, lines[7])

	assert.True(t, strings.HasSuffix(content, "\n"), "document must end with a trailing newline")
}

func TestGenerateEnvFileEmptyEnvironment(t *testing.T) {
	t.Parallel()

	handler := &exportHandler{payload: `{"secrets":[]}`}
	client := newTestClient(t, envault.Config{}, handler)

	content, err := client.GenerateEnvFile(context.Background(), "proj_1", "staging")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	assert.Len(t, lines, 3, "header only")
}
