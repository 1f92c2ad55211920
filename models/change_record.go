// SPDX-License-Identifier: Apache-2.0

package models

// RecordAction is the action tag on an inbound change record.
type RecordAction int

const (
	RecordActionAdd RecordAction = iota
	RecordActionUpdate
	RecordActionDelete
)

// ChangeRecord is a single inbound change as reported by the sync tree.
// For deletes the specifics ride on the record itself (the node is already
// gone); for adds and updates the current specifics are fetched from the node
// during apply.
type ChangeRecord struct {
	ID        int64
	Action    RecordAction
	Specifics EntitySpecifics
}

// ChangeRecordList is an ordered batch of inbound records.
type ChangeRecordList []ChangeRecord
