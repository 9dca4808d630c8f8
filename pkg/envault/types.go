package envault

import "time"

// Role is an environment-level access role.
type Role string

const (
	RoleNone  Role = "none"
	RoleRead  Role = "read"
	RoleWrite Role = "write"
	RoleAdmin Role = "admin"
)

// User is the authenticated principal, either a human user or a service token.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	AuthType string `json:"auth_type,omitempty"` // "user" or "service_token"

	// Populated for service tokens only.
	TeamID     string   `json:"team_id,omitempty"`
	ProjectIDs []string `json:"project_ids,omitempty"`
	Scopes     []string `json:"scopes,omitempty"`
}

// Project is a named container for environments and their secrets.
type Project struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectWithEnvironments is a Project plus its ordered environments.
type ProjectWithEnvironments struct {
	Project
	Environments []Environment `json:"environments"`
}

// Environment is a named value space within a project. Environments may
// inherit values from a sibling environment via InheritsFrom.
type Environment struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	InheritsFrom string    `json:"inherits_from,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Secret is secret metadata. It never carries a value; Version starts at 1
// and increments by one on every value update.
type Secret struct {
	ID            string    `json:"id"`
	EnvironmentID string    `json:"environment_id"`
	Key           string    `json:"key"`
	Type          string    `json:"type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SecretWithValue is a Secret plus its decrypted value. InheritedFrom names
// the environment the value was resolved from when the owning environment
// does not define its own override.
type SecretWithValue struct {
	Secret
	Value         string `json:"value"`
	InheritedFrom string `json:"inherited_from,omitempty"`
}

// SecretVersion is one previous version of a secret's value. The current
// version is never part of the history.
type SecretVersion struct {
	ID        string    `json:"id"`
	SecretID  string    `json:"secret_id"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	ChangedBy string    `json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EnvironmentPermission grants a user a role on an environment. At most one
// record exists per (environment, user) pair.
type EnvironmentPermission struct {
	ID            string    `json:"id"`
	EnvironmentID string    `json:"environment_id"`
	UserID        string    `json:"user_id"`
	Role          Role      `json:"role"`
	UserEmail     string    `json:"user_email,omitempty"`
	UserName      string    `json:"user_name,omitempty"`
	GrantedBy     string    `json:"granted_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MyPermission is the calling user's effective role on one environment.
type MyPermission struct {
	EnvironmentID   string `json:"environment_id"`
	EnvironmentName string `json:"environment_name"`
	Role            Role   `json:"role"`
	CanRead         bool   `json:"can_read"`
	CanWrite        bool   `json:"can_write"`
	CanAdmin        bool   `json:"can_admin"`
}

// MyPermissions summarizes the caller's access to a project. IsTeamAdmin
// implies admin-equivalent access to every environment regardless of the
// per-environment rows.
type MyPermissions struct {
	Permissions []MyPermission `json:"permissions"`
	IsTeamAdmin bool           `json:"is_team_admin"`
}

// ProjectDefault is the role applied to an environment when a user has no
// explicit permission record.
type ProjectDefault struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	EnvironmentName string    `json:"environment_name"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

// BulkSecret is one item of a bulk import request.
type BulkSecret struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// BulkImportResult reports per-item dispositions decided by the service.
type BulkImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// PermissionGrant is one item of a bulk permission assignment.
type PermissionGrant struct {
	UserID          string `json:"user_id"`
	EnvironmentName string `json:"environment_name"`
	Role            Role   `json:"role"`
}

// DefaultGrant is one item of a project-defaults update.
type DefaultGrant struct {
	EnvironmentName string `json:"environment_name"`
	Role            Role   `json:"role"`
}
