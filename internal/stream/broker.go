// Package stream はストアの変更をリアルタイムに購読者へ届ける。
// 書き込み後に Notify でコレクション名を Redis に publish し、
// Run がそれを受けて最新のスナップショット全体を全購読者に配る。
// 購読者は常に完全なスナップショットを受け取るので、途中の変更を
// 取りこぼしても最終的な状態は一致する
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/repository"
)

const (
	CollectionMembers            = "members"
	CollectionAssignments        = "assignments"
	CollectionUnavailableMembers = "unavailableMembers"

	changeChannel = "roster:changed"
)

func Collections() []string {
	return []string{CollectionMembers, CollectionAssignments, CollectionUnavailableMembers}
}

// Event は 1 コレクション分の完全なスナップショット
type Event struct {
	Collection string `json:"collection"`
	Data       any    `json:"data"`
}

// Subscription は購読のハンドル。Cancel を呼ぶと C はクローズされる
type Subscription struct {
	C <-chan Event

	cancel func()
}

func (s *Subscription) Cancel() {
	s.cancel()
}

type Broker struct {
	cfg         *config.Config
	repo        *repository.Repository
	redisClient *redis.Client

	mu     sync.Mutex
	subs   map[int64]chan Event
	nextID int64
	closed bool
}

func NewBroker(cfg *config.Config, repo *repository.Repository, rdb *redis.Client) *Broker {
	return &Broker{
		cfg:         cfg,
		repo:        repo,
		redisClient: rdb,
		subs:        make(map[int64]chan Event),
	}
}

// Subscribe は購読を開始する。以後コレクションが変更されるたびに
// スナップショットが C に届く
func (b *Broker) Subscribe() *Subscription {
	ch := make(chan Event, 8)

	b.mu.Lock()
	if b.closed {
		// 停止後の購読は即座に終端させる
		close(ch)
		b.mu.Unlock()
		return &Subscription{C: ch, cancel: func() {}}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		},
	}
}

// Notify はコレクションの変更を全プロセスに通知する。書き込みの成功後に呼ぶ
func (b *Broker) Notify(ctx context.Context, collection string) error {
	return b.redisClient.Publish(ctx, changeChannel, collection).Err()
}

// Snapshot はコレクションの現在の状態をストアから読み出す
func (b *Broker) Snapshot(collection string) (Event, error) {
	var data any
	var err error

	switch collection {
	case CollectionMembers:
		data, err = b.repo.GetAllMembers()
	case CollectionAssignments:
		data, err = b.repo.GetAllAssignments()
	case CollectionUnavailableMembers:
		data, err = b.repo.GetAllUnavailability()
	default:
		return Event{}, fmt.Errorf("不明なコレクション: %s", collection)
	}
	if err != nil {
		return Event{}, err
	}

	return Event{Collection: collection, Data: data}, nil
}

// Run は Redis の購読ループを回す。切断されたら間隔を置いて繋ぎ直す。
// ctx が取り消されると全購読者のチャネルをクローズしてから戻る
func (b *Broker) Run(ctx context.Context) {
	backoff := time.Duration(b.cfg.Redis.SubscribeBackoff) * time.Second

	for {
		pubsub := b.redisClient.Subscribe(ctx, changeChannel)
		ch := pubsub.Channel()

	recv:
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				b.closeSubscriptions()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				b.publishSnapshot(msg.Payload)
			}
		}
		_ = pubsub.Close()

		slog.Warn("変更通知の購読が切断されました。再接続します", "channel", changeChannel)
		select {
		case <-ctx.Done():
			b.closeSubscriptions()
			return
		case <-time.After(backoff):
		}
	}
}

// closeSubscriptions は全購読を解除する。サーバーの graceful shutdown では
// これで /events のハンドラが抜けてから Shutdown が完了する
func (b *Broker) closeSubscriptions() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broker) publishSnapshot(collection string) {
	event, err := b.Snapshot(collection)
	if err != nil {
		slog.Error("スナップショットの読み出しに失敗しました", "collection", collection, "error", err)
		return
	}

	b.broadcast(event)
}

func (b *Broker) broadcast(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			// 受信が遅い購読者には古いスナップショットを捨てて最新を届ける
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}
