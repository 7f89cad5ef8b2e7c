// Package permissions maps route patterns to the roles allowed to call them.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"roombook/shared/constant"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

var knownRoles = []string{constant.RoleAdmin, constant.RoleUser, constant.RoleSystem}

// normalize treats "/v1/rooms/" and "/v1/rooms" as the same route.
func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

// FindPermissions returns the rule for a chi route pattern, or an empty rule
// (any authenticated caller) when none is listed.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	path = normalize(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return normalize(rp.Path) == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Validate rejects rules naming a role the service does not issue.
func (r *PermissionData) Validate() error {
	for _, endpoint := range r.Endpoints {
		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return fmt.Errorf("%s %s: unknown role %q", endpoint.Method, endpoint.Path, role)
			}
		}
	}

	return nil
}

func parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	if err := permissions.Validate(); err != nil {
		return nil, err
	}

	return &permissions, nil
}

// Get loads the embedded rules. A nil result makes RBAC deny every protected route.
func Get() *PermissionData {
	permissions, err := parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
