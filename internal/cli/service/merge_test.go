package service

import (
	"testing"
	"time"

	"JournalVault/internal/cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t1 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

func docWith(entries ...model.Entry) *model.JournalDocument {
	d := model.NewJournalDocument(t1)
	for _, e := range entries {
		d.Entries[e.Date] = e
	}
	return d
}

func TestMerge_NewerLocalWins(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, "remote"))
	local := docWith(entryAt("2024-01-01", t2, "local"))

	got := Merge(remote, local, t3)
	assert.Equal(t, "local", got.Entries["2024-01-01"].Title)
}

func TestMerge_NewerRemoteWins(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t2, "remote"))
	local := docWith(entryAt("2024-01-01", t1, "local"))

	got := Merge(remote, local, t3)
	assert.Equal(t, "remote", got.Entries["2024-01-01"].Title)
}

func TestMerge_TieKeepsRemote(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, "remote"))
	local := docWith(entryAt("2024-01-01", t1, "local"))
	assert.Equal(t, "remote", Merge(remote, local, t3).Entries["2024-01-01"].Title)
}

func TestMerge_EntryIsAtomic(t *testing.T) {
	r := entryAt("2024-01-01", t1, "remote title")
	r.Content = "remote content"
	l := entryAt("2024-01-01", t2, "")
	l.Content = "local content"

	got := Merge(docWith(r), docWith(l), t3).Entries["2024-01-01"]
	assert.Equal(t, "", got.Title)
	assert.Equal(t, "local content", got.Content)
}

func TestMerge_Totality(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, ""), entryAt("2024-01-02", t1, ""))
	local := docWith(entryAt("2024-01-02", t2, ""), entryAt("2024-01-03", t1, ""))

	got := Merge(remote, local, t3)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, got.Keys())
}

func TestMerge_MetadataFromRemoteWithLastSync(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, ""))
	remote.Metadata.DeviceID = "remote-device"
	local := docWith(entryAt("2024-01-02", t1, ""))
	local.Metadata.DeviceID = "local-device"

	got := Merge(remote, local, t3)
	assert.Equal(t, "remote-device", got.Metadata.DeviceID)
	assert.True(t, got.Metadata.LastSync.Equal(t3))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, "remote"))
	local := docWith(entryAt("2024-01-01", t2, "local"), entryAt("2024-01-02", t1, ""))
	remoteBefore, localBefore := remote.Clone(), local.Clone()

	got := Merge(remote, local, t3)
	got.Entries["2024-01-01"] = entryAt("2024-01-01", t3, "mutated")

	assert.Equal(t, remoteBefore, remote)
	assert.Equal(t, localBefore, local)
}

func TestMerge_NilRemote_LocalAuthoritative(t *testing.T) {
	local := docWith(entryAt("2024-01-01", t1, "local"))
	got := Merge(nil, local, t3)
	require.NotNil(t, got)
	assert.Equal(t, local, got)
	assert.NotSame(t, local, got)
}

func TestMerge_EmptyLocal_RemoteAuthoritative(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, "remote"))
	for _, local := range []*model.JournalDocument{nil, model.NewJournalDocument(t2)} {
		before := remote.Clone()
		got := Merge(remote, local, t3)
		assert.Equal(t, remote.Entries, got.Entries)
		assert.Equal(t, remote.Metadata.DeviceID, got.Metadata.DeviceID)
		assert.Equal(t, remote.Metadata.Version, got.Metadata.Version)
		assert.True(t, got.Metadata.LastSync.Equal(t3), "lastSync stamped at merge time")
		assert.Equal(t, before, remote, "remote must not be mutated")
	}
}

func TestMerge_NoTombstones(t *testing.T) {
	remote := docWith(entryAt("2024-01-01", t1, "deleted locally"))
	local := docWith(entryAt("2024-01-02", t2, ""))

	got := Merge(remote, local, t3)
	_, back := got.Entries["2024-01-01"]
	assert.True(t, back)
}
