// SPDX-License-Identifier: Apache-2.0

package processor

import (
	"errors"

	"github.com/acidburn0zzz/treesync/internal/crypto"
	"github.com/acidburn0zzz/treesync/internal/store"
	"github.com/acidburn0zzz/treesync/models"
)

// fakeCryptographer exposes knobs the SQL store's real cryptographer cannot:
// Decrypt and CanDecrypt answer independently, which is what the encryption
// diagnostic's corrupted-entry cells need.
type fakeCryptographer struct {
	ready      bool
	decryptOK  map[string]bool
	canDecrypt map[string]bool
	encTypes   models.ModelTypeSet
}

func newFakeCryptographer() *fakeCryptographer {
	return &fakeCryptographer{
		decryptOK:  make(map[string]bool),
		canDecrypt: make(map[string]bool),
		encTypes:   models.NewModelTypeSet(),
	}
}

func (c *fakeCryptographer) IsReady() bool { return c.ready }

func (c *fakeCryptographer) CanDecrypt(encrypted models.EncryptedData) bool {
	return c.canDecrypt[encrypted.KeyName]
}

func (c *fakeCryptographer) Encrypt(plaintext []byte) (models.EncryptedData, error) {
	if !c.ready {
		return models.EncryptedData{}, errors.New("cryptographer is not ready")
	}
	return models.EncryptedData{KeyName: "default", Blob: plaintext}, nil
}

func (c *fakeCryptographer) Decrypt(encrypted models.EncryptedData) ([]byte, error) {
	if !c.decryptOK[encrypted.KeyName] {
		return nil, errors.New("no usable key")
	}
	return encrypted.Blob, nil
}

func (c *fakeCryptographer) EncryptedTypes() models.ModelTypeSet { return c.encTypes }

func (c *fakeCryptographer) SetEncryptedTypes(types models.ModelTypeSet) { c.encTypes = types }

func (c *fakeCryptographer) InstallKeyFromPassphrase(name, _ string, _ []byte) error {
	c.decryptOK[name] = true
	c.canDecrypt[name] = true
	c.ready = true
	return nil
}

var _ crypto.Cryptographer = (*fakeCryptographer)(nil)

// fakeEntry mirrors a nodes-table row.
type fakeEntry struct {
	id        int64
	modelType models.ModelType
	tag       string
	rootTag   string
	parentID  int64
	position  int64
	title     string
	specifics models.EntitySpecifics
	isDel     bool

	// lookupOverride forces the result of any lookup that found this entry.
	lookupOverride *store.InitByLookupResult
}

// fakeShare is an in-memory store.UserShare with failure knobs.
type fakeShare struct {
	crypto       crypto.Cryptographer
	encrypted    models.ModelTypeSet
	encryptedErr error

	readErr  error
	writeErr error
	// commitErr fails the closing commit of a write transaction.
	commitErr error

	// nodeWriteErr fails SetTitle / SetEntitySpecifics / Remove.
	nodeWriteErr error
	// predecessorErr fails the position step of InitUniqueByCreation.
	predecessorErr error

	nextID  int64
	entries map[int64]*fakeEntry
}

func newFakeShare(crypto crypto.Cryptographer) *fakeShare {
	return &fakeShare{
		crypto:    crypto,
		encrypted: models.NewModelTypeSet(),
		entries:   make(map[int64]*fakeEntry),
	}
}

func (s *fakeShare) addRoot(t models.ModelType) *fakeEntry {
	s.nextID++
	entry := &fakeEntry{
		id:        s.nextID,
		modelType: t,
		rootTag:   t.RootTag(),
	}
	s.entries[entry.id] = entry
	return entry
}

func (s *fakeShare) addEntry(t models.ModelType, tag, title string, specifics models.EntitySpecifics) *fakeEntry {
	root := s.findRoot(t.RootTag())
	s.nextID++
	entry := &fakeEntry{
		id:        s.nextID,
		modelType: t,
		tag:       tag,
		parentID:  root.id,
		position:  s.maxPosition(root.id) + 1,
		title:     title,
		specifics: specifics,
	}
	s.entries[entry.id] = entry
	return entry
}

func (s *fakeShare) findRoot(rootTag string) *fakeEntry {
	for _, entry := range s.entries {
		if entry.rootTag == rootTag {
			return entry
		}
	}
	panic("fake store: root not seeded: " + rootTag)
}

func (s *fakeShare) maxPosition(parentID int64) int64 {
	var max int64
	for _, entry := range s.entries {
		if entry.parentID == parentID && entry.position > max {
			max = entry.position
		}
	}
	return max
}

func (s *fakeShare) ReadTransaction() (store.ReadTransaction, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return &fakeTxn{share: s}, nil
}

func (s *fakeShare) WriteTransaction() (store.WriteTransaction, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &fakeTxn{share: s, writable: true}, nil
}

var _ store.UserShare = (*fakeShare)(nil)

type fakeTxn struct {
	share    *fakeShare
	writable bool
	closed   bool
}

func (t *fakeTxn) Cryptographer() crypto.Cryptographer { return t.share.crypto }

func (t *fakeTxn) EncryptedTypes() (models.ModelTypeSet, error) {
	return t.share.encrypted, t.share.encryptedErr
}

func (t *fakeTxn) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.writable {
		return t.share.commitErr
	}
	return nil
}

func (t *fakeTxn) NewReadNode() store.ReadNode   { return &fakeNode{share: t.share} }
func (t *fakeTxn) NewWriteNode() store.WriteNode { return &fakeNode{share: t.share} }

type fakeNode struct {
	share  *fakeShare
	entry  *fakeEntry
	inited bool

	decrypted *models.EntitySpecifics
}

func (n *fakeNode) InitByIDLookup(id int64) store.InitByLookupResult {
	if id == store.KInvalidID {
		return store.InitFailedPrecondition
	}
	entry, ok := n.share.entries[id]
	if !ok {
		return store.InitFailedEntryNotGood
	}
	return n.finishLookup(entry)
}

func (n *fakeNode) InitByClientTagLookup(t models.ModelType, tag string) store.InitByLookupResult {
	if t == models.Unspecified || tag == "" {
		return store.InitFailedPrecondition
	}

	var tombstone *fakeEntry
	for _, entry := range n.share.entries {
		if entry.modelType != t || entry.tag != tag {
			continue
		}
		if !entry.isDel {
			return n.finishLookup(entry)
		}
		tombstone = entry
	}
	if tombstone != nil {
		return n.finishLookup(tombstone)
	}
	return store.InitFailedEntryNotGood
}

func (n *fakeNode) InitByTagLookup(rootTag string) store.InitByLookupResult {
	if rootTag == "" {
		return store.InitFailedPrecondition
	}
	for _, entry := range n.share.entries {
		if entry.rootTag == rootTag {
			return n.finishLookup(entry)
		}
	}
	return store.InitFailedEntryNotGood
}

func (n *fakeNode) finishLookup(entry *fakeEntry) store.InitByLookupResult {
	n.entry = entry
	if entry.lookupOverride != nil {
		return *entry.lookupOverride
	}
	if entry.isDel {
		return store.InitFailedEntryIsDel
	}
	if entry.specifics.HasEncrypted() {
		plaintext, err := n.share.crypto.Decrypt(*entry.specifics.Encrypted)
		if err != nil {
			return store.InitFailedDecryptIfNecessary
		}
		n.decrypted = &models.EntitySpecifics{Type: entry.specifics.Type, Data: plaintext}
	}
	n.inited = true
	return store.InitOK
}

func (n *fakeNode) ID() int64 {
	if n.entry == nil {
		return store.KInvalidID
	}
	return n.entry.id
}

func (n *fakeNode) Title() string {
	if n.entry == nil {
		return ""
	}
	return n.entry.title
}

func (n *fakeNode) EntitySpecifics() models.EntitySpecifics {
	if n.decrypted != nil {
		return *n.decrypted
	}
	if n.entry == nil {
		return models.EntitySpecifics{}
	}
	return n.entry.specifics
}

func (n *fakeNode) EntrySpecifics() models.EntitySpecifics {
	if n.entry == nil {
		return models.EntitySpecifics{}
	}
	return n.entry.specifics
}

func (n *fakeNode) FirstChildID() (int64, error) {
	if !n.inited {
		return store.KInvalidID, store.ErrNodeNotInitialized
	}
	return n.childAfter(n.entry.id, 0), nil
}

func (n *fakeNode) SuccessorID() (int64, error) {
	if !n.inited {
		return store.KInvalidID, store.ErrNodeNotInitialized
	}
	return n.childAfter(n.entry.parentID, n.entry.position), nil
}

func (n *fakeNode) HasChildren() (bool, error) {
	first, err := n.FirstChildID()
	if err != nil {
		return false, err
	}
	return first != store.KInvalidID, nil
}

func (n *fakeNode) childAfter(parentID, afterPosition int64) int64 {
	var best *fakeEntry
	for _, entry := range n.share.entries {
		if entry.isDel || entry.parentID != parentID || entry.position <= afterPosition {
			continue
		}
		if best == nil || entry.position < best.position {
			best = entry
		}
	}
	if best == nil {
		return store.KInvalidID
	}
	return best.id
}

func (n *fakeNode) InitUniqueByCreation(t models.ModelType, root store.ReadNode, tag string) store.InitUniqueByCreationResult {
	if tag == "" {
		return store.InitFailedEmptyTag
	}
	if t == models.Unspecified || root == nil || root.ID() == store.KInvalidID {
		return store.InitFailedCouldNotCreateEntry
	}

	probe := &fakeNode{share: n.share}
	switch probe.InitByClientTagLookup(t, tag) {
	case store.InitOK, store.InitFailedDecryptIfNecessary:
		return store.InitFailedEntryAlreadyExists
	}

	if n.share.predecessorErr != nil {
		return store.InitFailedSetPredecessor
	}

	n.share.nextID++
	entry := &fakeEntry{
		id:        n.share.nextID,
		modelType: t,
		tag:       tag,
		parentID:  root.ID(),
		position:  n.share.maxPosition(root.ID()) + 1,
	}
	n.share.entries[entry.id] = entry
	n.entry = entry
	n.inited = true
	return store.InitSuccess
}

func (n *fakeNode) SetTitle(title string) error {
	if !n.inited {
		return store.ErrNodeNotInitialized
	}
	if n.share.nodeWriteErr != nil {
		return n.share.nodeWriteErr
	}
	n.entry.title = title
	return nil
}

func (n *fakeNode) SetEntitySpecifics(specifics models.EntitySpecifics) error {
	if !n.inited {
		return store.ErrNodeNotInitialized
	}
	if n.share.nodeWriteErr != nil {
		return n.share.nodeWriteErr
	}
	n.entry.specifics = specifics
	n.decrypted = nil
	return nil
}

func (n *fakeNode) Remove() error {
	if !n.inited {
		return store.ErrNodeNotInitialized
	}
	if n.share.nodeWriteErr != nil {
		return n.share.nodeWriteErr
	}
	n.entry.isDel = true
	n.inited = false
	return nil
}
