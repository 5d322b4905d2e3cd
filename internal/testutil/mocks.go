package testutil

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	TTLs map[string]int
	Sets int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte), TTLs: make(map[string]int)}
}

func (m *MockCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value []byte, ttl int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
	m.TTLs[key] = ttl
	m.Sets++
}

func (m *MockCache) Close() error { return nil }

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	CacheHits        int
	CacheMisses      int
	UpstreamOutcomes map[string]int
	RemindersSent    int
	Ticks            int
	Requests         map[string]int
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Requests == nil {
		m.Requests = make(map[string]int)
	}
	m.Requests[fmt.Sprintf("%s:%d", endpoint, status)]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncUpstreamRequests(endpoint string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpstreamOutcomes == nil {
		m.UpstreamOutcomes = make(map[string]int)
	}
	m.UpstreamOutcomes[endpoint+":"+outcome]++
}
func (m *MockMetrics) AddRemindersSent(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemindersSent += count
}
func (m *MockMetrics) ObserveReminderTick(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
}

// SentMessage is one message captured by MockNotifier.
type SentMessage struct {
	ChatID int64
	Text   string
}

// MockNotifier implements providers.NotifierInterface. Chats listed in
// FailChats return an error instead of recording the message.
type MockNotifier struct {
	mu        sync.Mutex
	Sent      []SentMessage
	FailChats map[int64]bool
}

func (m *MockNotifier) SendMessage(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailChats[chatID] {
		return fmt.Errorf("send to %d failed", chatID)
	}
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text})
	return nil
}

// MockClient implements upstream.ClientInterface over in-memory fixtures.
// Players missing from the map fail with PlayerErr.
type MockClient struct {
	mu          sync.Mutex
	Clan        *models.Clan
	ClanErr     error
	Players     map[string]*models.Player
	PlayerErr   error
	War         *models.War
	WarErr      error
	WarLog      *models.WarLog
	WarLogErr   error
	LeagueGroup *models.LeagueGroup
	LeagueErr   error
	Raids       *models.CapitalRaidSeasons
	RaidsErr    error
	Games       *models.ClanGamesSeasons
	GamesErr    error
	Calls       map[string]int
}

func (m *MockClient) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

func (m *MockClient) FetchWithCache(_ context.Context, _, _ string) ([]byte, error) {
	m.called("fetch")
	return nil, errors.New("not implemented in mock")
}

func (m *MockClient) GetClan(_ context.Context, _ string) (*models.Clan, error) {
	m.called("clan")
	return m.Clan, m.ClanErr
}

func (m *MockClient) GetPlayer(_ context.Context, tag string) (*models.Player, error) {
	m.called("player")
	if p, ok := m.Players[tag]; ok {
		return p, nil
	}
	if m.PlayerErr != nil {
		return nil, m.PlayerErr
	}
	return nil, errors.New("player not found")
}

func (m *MockClient) GetWar(_ context.Context, _ string) (*models.War, error) {
	m.called("war")
	return m.War, m.WarErr
}

func (m *MockClient) GetWarLog(_ context.Context, _ string) (*models.WarLog, error) {
	m.called("warlog")
	return m.WarLog, m.WarLogErr
}

func (m *MockClient) GetCurrentWarLeagueGroup(_ context.Context, _ string) (*models.LeagueGroup, error) {
	m.called("leaguegroup")
	return m.LeagueGroup, m.LeagueErr
}

func (m *MockClient) GetCapitalRaidSeasons(_ context.Context, _ string) (*models.CapitalRaidSeasons, error) {
	m.called("raids")
	return m.Raids, m.RaidsErr
}

func (m *MockClient) GetClanGamesSeasons(_ context.Context, _ string) (*models.ClanGamesSeasons, error) {
	m.called("clangames")
	return m.Games, m.GamesErr
}

type bindingKey struct {
	group int64
	user  int64
}

// MockStore is an in-memory membership store.
type MockStore struct {
	mu        sync.Mutex
	bindings  map[bindingKey]models.Binding
	cooldowns map[bindingKey]time.Time
	SetErr    error
}

func NewMockStore() *MockStore {
	return &MockStore{
		bindings:  make(map[bindingKey]models.Binding),
		cooldowns: make(map[bindingKey]time.Time),
	}
}

func (m *MockStore) UpsertBinding(_ context.Context, b models.Binding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := bindingKey{b.GroupID, b.UserID}
	if prev, ok := m.bindings[k]; ok {
		b.CreatedAt = prev.CreatedAt
	}
	m.bindings[k] = b
	return nil
}

func (m *MockStore) DeleteBinding(_ context.Context, groupID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := bindingKey{groupID, userID}
	_, ok := m.bindings[k]
	delete(m.bindings, k)
	return ok, nil
}

func (m *MockStore) GetBinding(_ context.Context, groupID, userID int64) (models.Binding, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bindings[bindingKey{groupID, userID}]
	return b, ok, nil
}

func (m *MockStore) GetBindingsForGroup(_ context.Context, groupID int64) ([]models.Binding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Binding
	for k, b := range m.bindings {
		if k.group == groupID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MockStore) GetBindingsForTags(ctx context.Context, groupID int64, tags map[string]struct{}) ([]models.Binding, error) {
	all, _ := m.GetBindingsForGroup(ctx, groupID)
	var out []models.Binding
	for _, b := range all {
		if _, ok := tags[b.Tag]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MockStore) GetGroupIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]struct{})
	var out []int64
	for k := range m.bindings {
		if _, ok := seen[k.group]; !ok {
			seen[k.group] = struct{}{}
			out = append(out, k.group)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *MockStore) GetCooldowns(_ context.Context, groupID int64, userIDs []int64) (map[int64]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]time.Time)
	for _, id := range userIDs {
		if ts, ok := m.cooldowns[bindingKey{groupID, id}]; ok {
			out[id] = ts
		}
	}
	return out, nil
}

func (m *MockStore) SetCooldowns(_ context.Context, groupID int64, userIDs []int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	for _, id := range userIDs {
		m.cooldowns[bindingKey{groupID, id}] = at
	}
	return nil
}

func (m *MockStore) Close() error { return nil }
