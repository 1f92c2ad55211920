// SPDX-License-Identifier: Apache-2.0

package models

// SyncData is the value object flowing through the change pipeline. It has
// two variants:
//
//   - local:  carries a client-chosen tag (non-empty for mutations), a title,
//     and the entity specifics. Produced by local services describing their
//     own state.
//   - remote: carries the opaque remote node id and the entity specifics as
//     observed in the tree store.
//
// Both variants expose their datatype through the specifics.
type SyncData struct {
	local    bool
	remoteID int64
	tag      string
	title    string

	specifics EntitySpecifics
}

// CreateLocalData builds the local variant.
func CreateLocalData(tag, title string, specifics EntitySpecifics) SyncData {
	return SyncData{
		local:     true,
		tag:       tag,
		title:     title,
		specifics: specifics,
	}
}

// CreateRemoteData builds the remote variant from a node id and the specifics
// observed on that node.
func CreateRemoteData(id int64, specifics EntitySpecifics) SyncData {
	return SyncData{
		remoteID:  id,
		specifics: specifics,
	}
}

// IsLocal reports whether the data is the local (client-originated) variant.
func (d SyncData) IsLocal() bool { return d.local }

// RemoteID returns the tree-store node id. Only meaningful for remote data.
func (d SyncData) RemoteID() int64 { return d.remoteID }

// Tag returns the client tag. Only meaningful for local data.
func (d SyncData) Tag() string { return d.tag }

// Title returns the display title. Only meaningful for local data.
func (d SyncData) Title() string { return d.title }

// Specifics returns the entity specifics payload.
func (d SyncData) Specifics() EntitySpecifics { return d.specifics }

// DataType returns the datatype the specifics belong to.
func (d SyncData) DataType() ModelType { return d.specifics.Type }
