// Package permissions holds the embedded endpoint table consulted by the auth and RBAC middleware.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission is one route pattern and the roles allowed to call it. Skip marks a public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Open reports whether the route needs no role at all.
func (p Permission) Open() bool {
	return p.Skip || len(p.Permissions) == 0
}

// Allows reports whether role may call the route. The admin role is always allowed.
func (p Permission) Allows(role, admin string) bool {
	return p.Open() || role == admin || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(path, method string) string {
	return strings.ToUpper(method) + " " + strings.TrimSuffix(path, "/")
}

// FindPermissions matches a route pattern, ignoring a trailing slash. Unknown routes
// yield the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	return r.index[routeKey(path, method)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Path, endpoint.Method)
		if _, dup := r.index[key]; dup {
			log.Warn().Str("route", key).Msg("duplicate permission entry ignored")

			continue
		}

		r.index[key] = endpoint
	}
}

func Get() *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(permissionsData, &data); err != nil {
		log.Err(err).Msg("failed to decode embedded permissions")

		return nil
	}

	data.buildIndex()

	log.Info().Int("endpoints", len(data.index)).Msg("embedded permissions loaded")

	return &data
}
