package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

// mockStore はストアのドキュメントツリーをメモリ上でそのまま再現するテストダブル
type mockStore struct {
	members        []*domain.Member
	assignments    domain.AssignmentMap
	unavailability domain.UnavailabilityMap
}

func newMockStore() *mockStore {
	return &mockStore{
		assignments:    make(domain.AssignmentMap),
		unavailability: make(domain.UnavailabilityMap),
	}
}

func (s *mockStore) CreateMember(member *domain.Member) error {
	s.members = append(s.members, member)
	return nil
}

func (s *mockStore) GetMemberByID(id string) (*domain.Member, error) {
	for _, member := range s.members {
		if member.ID == id {
			return member, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *mockStore) GetAllMembers() ([]*domain.Member, error) {
	return s.members, nil
}

func (s *mockStore) UpdateMember(member *domain.Member) error {
	for i, existing := range s.members {
		if existing.ID == member.ID {
			s.members[i] = member
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *mockStore) DeleteMember(id string) error {
	for i, member := range s.members {
		if member.ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *mockStore) GetAssignmentsByDateKey(dateKey string) (domain.DutyAssignments, error) {
	assignments := make(domain.DutyAssignments)
	for duty, memberID := range s.assignments[dateKey] {
		assignments[duty] = memberID
	}
	return assignments, nil
}

func (s *mockStore) AssignDuty(dateKey string, duty domain.Duty, memberID string) error {
	if _, ok := s.assignments[dateKey]; !ok {
		s.assignments[dateKey] = make(domain.DutyAssignments)
	}
	id := memberID
	s.assignments[dateKey][duty] = &id
	return nil
}

func (s *mockStore) UnassignDuty(dateKey string, duty domain.Duty) error {
	if _, ok := s.assignments[dateKey]; !ok {
		s.assignments[dateKey] = make(domain.DutyAssignments)
	}
	s.assignments[dateKey][duty] = nil
	return nil
}

func (s *mockStore) GetUnavailableMemberIDs(dateKey string) ([]string, error) {
	return append([]string{}, s.unavailability[dateKey]...), nil
}

func (s *mockStore) ReplaceUnavailableMemberIDs(dateKey string, memberIDs []string) error {
	s.unavailability[dateKey] = append([]string{}, memberIDs...)
	return nil
}

// mockBroker は送られた通知を記録するだけのテストダブル
type mockBroker struct {
	notified []string

	lastCtxErr      error
	lastHadDeadline bool
}

func (b *mockBroker) Notify(ctx context.Context, collection string) error {
	b.notified = append(b.notified, collection)
	b.lastCtxErr = ctx.Err()
	_, b.lastHadDeadline = ctx.Deadline()
	return nil
}

func (b *mockBroker) Subscribe() *stream.Subscription { return nil }

func (b *mockBroker) Snapshot(collection string) (stream.Event, error) {
	return stream.Event{Collection: collection}, nil
}

func newScheduleTestHandler(t *testing.T) (*Handler, *mockStore, *mockBroker) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Settings.Password = "5475"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Redis.PublishTimeout = 10

	store := newMockStore()
	broker := &mockBroker{}

	h, err := NewHandler(cfg, store, nil, broker)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, store, broker
}

func doRequest(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Mux.ServeHTTP(w, r)

	return w
}

func TestAssignThenUnassignLeavesExplicitNull(t *testing.T) {
	h, store, broker := newScheduleTestHandler(t)

	w := doRequest(t, h, http.MethodPut, "/schedule/2024-06-02/assignments/パス1", `{"memberID":"m9"}`)
	require.True(t, decodeResponse(t, w).Success)

	cell, exists := store.assignments["2024-06-02"][domain.DutyPass1]
	require.True(t, exists)
	require.NotNil(t, cell)
	assert.Equal(t, "m9", *cell)

	w = doRequest(t, h, http.MethodDelete, "/schedule/2024-06-02/assignments/パス1", "")
	require.True(t, decodeResponse(t, w).Success)

	// 解除はセルを消すのではなく、明示的な未割り当て (null) に戻す
	cell, exists = store.assignments["2024-06-02"][domain.DutyPass1]
	require.True(t, exists)
	assert.Nil(t, cell)

	assert.Equal(t, []string{stream.CollectionAssignments, stream.CollectionAssignments}, broker.notified)
}

func TestGetDayScheduleReturnsNullForUnassignedCell(t *testing.T) {
	h, _, _ := newScheduleTestHandler(t)

	doRequest(t, h, http.MethodPut, "/schedule/2024-06-02/assignments/パス1", `{"memberID":"m9"}`)
	doRequest(t, h, http.MethodDelete, "/schedule/2024-06-02/assignments/パス1", "")

	w := doRequest(t, h, http.MethodGet, "/schedule/2024-06-02", "")

	var resp struct {
		Success bool               `json:"success"`
		Data    domain.DaySchedule `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.True(t, resp.Success)

	// 全担当のキーが揃っていて、解除済みのセルは null のまま残る
	assert.Len(t, resp.Data.Assignments, len(domain.Duties()))
	cell, exists := resp.Data.Assignments[domain.DutyPass1]
	require.True(t, exists)
	assert.Nil(t, cell)
}

func TestAddUnavailableMemberKeepsDuplicates(t *testing.T) {
	h, store, broker := newScheduleTestHandler(t)

	w := doRequest(t, h, http.MethodPost, "/schedule/2024-06-02/unavailable-members", `{"memberID":"m1"}`)
	require.True(t, decodeResponse(t, w).Success)
	w = doRequest(t, h, http.MethodPost, "/schedule/2024-06-02/unavailable-members", `{"memberID":"m1"}`)
	require.True(t, decodeResponse(t, w).Success)

	// 同じメンバーを重ねて追加しても重複は取り除かない
	assert.Equal(t, []string{"m1", "m1"}, store.unavailability["2024-06-02"])
	assert.Equal(t, []string{stream.CollectionUnavailableMembers, stream.CollectionUnavailableMembers}, broker.notified)
}

func TestRemoveUnavailableMemberRemovesAllOccurrences(t *testing.T) {
	h, store, _ := newScheduleTestHandler(t)
	store.unavailability["2024-06-02"] = []string{"m1", "m2", "m1"}

	w := doRequest(t, h, http.MethodDelete, "/schedule/2024-06-02/unavailable-members/m1", "")
	require.True(t, decodeResponse(t, w).Success)

	// 重複して入っていた ID も一度の削除で全部消える
	assert.Equal(t, []string{"m2"}, store.unavailability["2024-06-02"])
}

func TestChangeNotificationOutlivesRequestContext(t *testing.T) {
	h, store, broker := newScheduleTestHandler(t)

	r := httptest.NewRequest(http.MethodPut, "/schedule/2024-06-02/assignments/パス1", strings.NewReader(`{"memberID":"m9"}`))
	ctx, cancel := context.WithCancel(r.Context())
	cancel() // クライアントが書き込み直後に切断したのと同じ状態
	r = r.WithContext(ctx)

	w := httptest.NewRecorder()
	h.Mux.ServeHTTP(w, r)

	require.NotNil(t, store.assignments["2024-06-02"][domain.DutyPass1])

	// 通知はリクエストとは別の、期限付きコンテキストで送られる
	require.Equal(t, []string{stream.CollectionAssignments}, broker.notified)
	assert.NoError(t, broker.lastCtxErr)
	assert.True(t, broker.lastHadDeadline)
}
