package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesBroadcast(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	sub := b.Subscribe()
	defer sub.Cancel()

	b.broadcast(Event{Collection: CollectionMembers, Data: "snapshot"})

	event := <-sub.C
	assert.Equal(t, CollectionMembers, event.Collection)
	assert.Equal(t, "snapshot", event.Data)
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	first := b.Subscribe()
	defer first.Cancel()
	second := b.Subscribe()
	defer second.Cancel()

	b.broadcast(Event{Collection: CollectionAssignments})

	assert.Equal(t, CollectionAssignments, (<-first.C).Collection)
	assert.Equal(t, CollectionAssignments, (<-second.C).Collection)
}

func TestCancelClosesChannel(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	sub := b.Subscribe()
	sub.Cancel()

	_, ok := <-sub.C
	assert.False(t, ok)

	// 二重に Cancel しても何も起きない
	sub.Cancel()

	// 解除済みの購読者がいても配信は続けられる
	b.broadcast(Event{Collection: CollectionMembers})
}

func TestSlowSubscriberKeepsLatestSnapshot(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	sub := b.Subscribe()
	defer sub.Cancel()

	// バッファを溢れさせても最後のスナップショットは必ず受け取れる
	for i := 0; i < 100; i++ {
		b.broadcast(Event{Collection: CollectionUnavailableMembers, Data: i})
	}

	var last Event
	for {
		select {
		case event := <-sub.C:
			last = event
			continue
		default:
		}
		break
	}

	require.Equal(t, CollectionUnavailableMembers, last.Collection)
	assert.Equal(t, 99, last.Data)
}

func TestCloseSubscriptionsClosesAllChannels(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	first := b.Subscribe()
	second := b.Subscribe()

	b.closeSubscriptions()

	// 全購読者のチャネルが閉じて、受信ループが抜けられる
	_, ok := <-first.C
	assert.False(t, ok)
	_, ok = <-second.C
	assert.False(t, ok)

	// 停止後の Subscribe も即座に終端する
	late := b.Subscribe()
	_, ok = <-late.C
	assert.False(t, ok)

	// 閉じた後の Cancel は何も起きない
	first.Cancel()
	late.Cancel()
}

func TestSnapshotRejectsUnknownCollection(t *testing.T) {
	b := NewBroker(nil, nil, nil)

	_, err := b.Snapshot("nonsense")
	assert.Error(t, err)
}

func TestCollections(t *testing.T) {
	assert.Equal(t, []string{"members", "assignments", "unavailableMembers"}, Collections())
}
