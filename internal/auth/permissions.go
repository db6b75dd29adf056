package auth

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// PermissionWildcard grants every permission. Seeded admin roles carry it.
const PermissionWildcard = "all"

// ErrMalformedPermissionData marks a role whose stored permission value
// could not be parsed. The parse still yields an empty set, so the failure
// mode is always a deny.
var ErrMalformedPermissionData = errors.New("malformed permission data")

// PermissionSet is the canonical, de-duplicated form of a role's grants.
// The zero value (nil map) denies everything.
type PermissionSet map[string]struct{}

// NormalizePermissions builds a set from a list: trims, drops empties,
// de-duplicates. Order is irrelevant.
func NormalizePermissions(perms []string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// ParsePermissions accepts either representation the store may hold: a JSON
// array of strings or a comma-delimited string. Anything unparseable yields
// an empty set together with ErrMalformedPermissionData.
func ParsePermissions(raw string) (PermissionSet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PermissionSet{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return PermissionSet{}, ErrMalformedPermissionData
		}
		return NormalizePermissions(list), nil
	}
	return NormalizePermissions(strings.Split(raw, ",")), nil
}

// Has reports membership of a single permission, honoring the wildcard.
func (s PermissionSet) Has(permission string) bool {
	if len(s) == 0 || permission == "" {
		return false
	}
	if _, ok := s[PermissionWildcard]; ok {
		return true
	}
	_, ok := s[permission]
	return ok
}

// HasAny is true iff at least one of the requested permissions is granted.
func (s PermissionSet) HasAny(permissions []string) bool {
	for _, p := range permissions {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll is true iff every requested permission is granted.
func (s PermissionSet) HasAll(permissions []string) bool {
	if len(permissions) == 0 {
		return false
	}
	for _, p := range permissions {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// List returns the set in sorted slice form, mainly for responses and logs.
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Marshal renders the canonical stored form: a JSON array.
func (s PermissionSet) Marshal() string {
	data, err := json.Marshal(s.List())
	if err != nil {
		return "[]"
	}
	return string(data)
}

type requirementKind int

const (
	requireSingle requirementKind = iota
	requireAny
	requireAll
)

// Requirement is a declared permission expression a route demands. Routes
// declare these at registration time, next to the route definitions.
type Requirement struct {
	kind  requirementKind
	perms []string
}

// Permit requires one specific permission.
func Permit(permission string) Requirement {
	return Requirement{kind: requireSingle, perms: []string{permission}}
}

// AnyOf requires at least one of the listed permissions.
func AnyOf(permissions ...string) Requirement {
	return Requirement{kind: requireAny, perms: permissions}
}

// AllOf requires every listed permission.
func AllOf(permissions ...string) Requirement {
	return Requirement{kind: requireAll, perms: permissions}
}

// SatisfiedBy evaluates the requirement against a normalized set. An empty
// requirement or empty set always denies.
func (r Requirement) SatisfiedBy(set PermissionSet) bool {
	if len(r.perms) == 0 {
		return false
	}
	switch r.kind {
	case requireAny:
		return set.HasAny(r.perms)
	case requireAll:
		return set.HasAll(r.perms)
	default:
		return set.Has(r.perms[0])
	}
}

// Permissions returns the declared permission strings, for logging.
func (r Requirement) Permissions() []string {
	out := make([]string, len(r.perms))
	copy(out, r.perms)
	return out
}
