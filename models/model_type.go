// SPDX-License-Identifier: Apache-2.0

package models

// ModelType identifies a sync datatype. Each value selects a per-type schema,
// a root-node anchor tag, and the local service responsible for the type.
//
// Unspecified is the zero value and is never legal on a change; the pipeline
// treats it as an assertion failure, not a recoverable error.
type ModelType int

const (
	Unspecified ModelType = iota
	Bookmarks
	Preferences
	Passwords
	Autofill
	Themes
	TypedURLs
	Extensions
	Apps
	Sessions

	// ModelTypeCount is the histogram upper bound, not a real type.
	ModelTypeCount
)

// modelTypeInfo is the per-type dispatch table: a stable string name and the
// tag under which the type's root node is anchored in the tree store.
var modelTypeInfo = map[ModelType]struct {
	name    string
	rootTag string
}{
	Unspecified: {"Unspecified", ""},
	Bookmarks:   {"Bookmarks", "sync_root_bookmarks"},
	Preferences: {"Preferences", "sync_root_preferences"},
	Passwords:   {"Passwords", "sync_root_passwords"},
	Autofill:    {"Autofill", "sync_root_autofill"},
	Themes:      {"Themes", "sync_root_themes"},
	TypedURLs:   {"Typed URLs", "sync_root_typed_urls"},
	Extensions:  {"Extensions", "sync_root_extensions"},
	Apps:        {"Apps", "sync_root_apps"},
	Sessions:    {"Sessions", "sync_root_sessions"},
}

// String returns the stable display name of the type.
func (t ModelType) String() string {
	if info, ok := modelTypeInfo[t]; ok {
		return info.name
	}
	return "Unknown"
}

// RootTag returns the tag string used to look up the per-type root node.
// Empty for Unspecified and unknown values.
func (t ModelType) RootTag() string {
	return modelTypeInfo[t].rootTag
}

// AllModelTypes lists every real datatype, in declaration order.
func AllModelTypes() []ModelType {
	types := make([]ModelType, 0, int(ModelTypeCount)-1)
	for t := Unspecified + 1; t < ModelTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// ModelTypeSet is a set of datatypes, used for the encrypted-type (nigori)
// set and for failed-type bookkeeping.
type ModelTypeSet map[ModelType]struct{}

func NewModelTypeSet(types ...ModelType) ModelTypeSet {
	set := make(ModelTypeSet, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether t is in the set.
func (s ModelTypeSet) Has(t ModelType) bool {
	_, ok := s[t]
	return ok
}

// Put adds t to the set.
func (s ModelTypeSet) Put(t ModelType) {
	s[t] = struct{}{}
}
