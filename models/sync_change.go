// SPDX-License-Identifier: Apache-2.0

package models

import "fmt"

// ChangeType is the action half of a SyncChange.
type ChangeType int

const (
	ActionInvalid ChangeType = iota
	ActionAdd
	ActionUpdate
	ActionDelete
)

func (c ChangeType) String() string {
	switch c {
	case ActionAdd:
		return "Add"
	case ActionUpdate:
		return "Update"
	case ActionDelete:
		return "Delete"
	default:
		return "Invalid"
	}
}

// SyncChange pairs an action with the data it applies to.
// Invariant: the data's type is never Unspecified.
type SyncChange struct {
	changeType ChangeType
	syncData   SyncData
}

func NewSyncChange(changeType ChangeType, syncData SyncData) SyncChange {
	return SyncChange{changeType: changeType, syncData: syncData}
}

// ChangeType returns the action.
func (c SyncChange) ChangeType() ChangeType { return c.changeType }

// SyncData returns the data the action applies to.
func (c SyncChange) SyncData() SyncData { return c.syncData }

func (c SyncChange) String() string {
	return fmt.Sprintf("%s %s", c.changeType, c.syncData.DataType())
}

// SyncChangeList is an ordered batch of changes. Order is significant: the
// pipeline preserves it end to end.
type SyncChangeList []SyncChange
