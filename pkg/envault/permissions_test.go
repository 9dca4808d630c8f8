package envault_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/envault/pkg/envault"
)

func TestBulkSetPermissionsWireFormat(t *testing.T) {
	t.Parallel()

	var rawBody json.RawMessage
	client := newTestClient(t, envault.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/projects/proj_1/permissions/bulk", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		_, _ = w.Write([]byte(`{"data":[{"id":"perm_1","user_id":"usr_9","role":"write"}]}`))
	}))

	perms, err := client.BulkSetPermissions(context.Background(), "proj_1", []envault.PermissionGrant{
		{UserID: "usr_9", EnvironmentName: "staging", Role: envault.RoleWrite},
	})
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "usr_9", perms[0].UserID)

	// The wire body must use snake_case names; the remote API ignores
	// anything else.
	var body struct {
		Permissions []map[string]interface{} `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rawBody, &body))
	require.Len(t, body.Permissions, 1)
	grant := body.Permissions[0]
	assert.Equal(t, "usr_9", grant["user_id"])
	assert.Equal(t, "staging", grant["environment_name"])
	assert.Equal(t, "write", grant["role"])
	assert.NotContains(t, grant, "userId")
	assert.NotContains(t, grant, "environmentName")
}

func TestSetProjectDefaultsWireFormat(t *testing.T) {
	t.Parallel()

	var rawBody json.RawMessage
	client := newTestClient(t, envault.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/v1/projects/proj_1/defaults", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		_, _ = w.Write([]byte(`{"data":[{"id":"def_1","project_id":"proj_1","environment_name":"staging","role":"read"}]}`))
	}))

	defaults, err := client.SetProjectDefaults(context.Background(), "proj_1", []envault.DefaultGrant{
		{EnvironmentName: "staging", Role: envault.RoleRead},
	})
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, envault.RoleRead, defaults[0].Role)

	var body struct {
		Defaults []map[string]interface{} `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rawBody, &body))
	require.Len(t, body.Defaults, 1)
	assert.Equal(t, "staging", body.Defaults[0]["environment_name"])
	assert.NotContains(t, body.Defaults[0], "environmentName")
}

func TestMyPermissionsEnvelope(t *testing.T) {
	t.Parallel()

	// The my-permissions summary is not data-wrapped; permissions and
	// is_team_admin live at the top level.
	client := newTestClient(t, envault.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/projects/proj_1/permissions/me", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"permissions":[
				{"environment_id":"env_1","environment_name":"production","role":"read","can_read":true,"can_write":false,"can_admin":false}
			],
			"is_team_admin":true
		}`))
	}))

	mine, err := client.MyPermissions(context.Background(), "proj_1")
	require.NoError(t, err)
	assert.True(t, mine.IsTeamAdmin)
	require.Len(t, mine.Permissions, 1)
	assert.Equal(t, envault.RoleRead, mine.Permissions[0].Role)
	assert.True(t, mine.Permissions[0].CanRead)
	assert.False(t, mine.Permissions[0].CanWrite)
}

func TestSetAndDeletePermission(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, envault.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			require.Equal(t, "/v1/projects/proj_1/environments/staging/permissions/usr_9", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":{"id":"perm_1","environment_id":"env_1","user_id":"usr_9","role":"admin"}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	ctx := context.Background()

	perm, err := client.SetPermission(ctx, "proj_1", "staging", "usr_9", envault.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, envault.RoleAdmin, perm.Role)

	assert.NoError(t, client.DeletePermission(ctx, "proj_1", "staging", "usr_9"))
}

func TestGetProjectDefaults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, envault.Config{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"def_1","project_id":"proj_1","environment_name":"production","role":"none"},
			{"id":"def_2","project_id":"proj_1","environment_name":"staging","role":"read"}
		]}`))
	}))

	defaults, err := client.GetProjectDefaults(context.Background(), "proj_1")
	require.NoError(t, err)
	require.Len(t, defaults, 2)
	assert.Equal(t, envault.RoleNone, defaults[0].Role)
}
