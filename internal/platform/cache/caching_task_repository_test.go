package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"task_backend/internal/feature/tasks/domain"
	"task_backend/internal/feature/tasks/domain/entity"
)

// mockTaskRepository はテスト用のTaskRepositoryモック実装です。
type mockTaskRepository struct {
	listFn   func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error)
	findFn   func(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error)
	createFn func(ctx context.Context, task *entity.Task) error
	updateFn func(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error)
	deleteFn func(ctx context.Context, id, ownerID uuid.UUID) error
}

func (m *mockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskRepository) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id, ownerID)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	return nil
}

func (m *mockTaskRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, ownerID, patch)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil
}

var (
	ownerA = uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa")
	taskA  = entity.Task{
		ID:        uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"),
		UserID:    ownerA,
		Title:     "cached task",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	fixedNow = time.Unix(0, 1735689600000000000)
	seedA    = "1735689600000000000"
	genKeyA  = "tasks:" + ownerA.String() + ":gen"
	listKeyA = "tasks:" + ownerA.String() + ":7:list"
	itemKeyA = "tasks:" + ownerA.String() + ":7:item:" + taskA.ID.String()
)

// newTestRepo は時刻を固定したキャッシュリポジトリを生成します。
func newTestRepo(rdb *redis.Client, inner *mockTaskRepository) *CachingTaskRepository {
	repo := NewCachingTaskRepository(rdb, 5*time.Minute, inner, "tasks")
	repo.now = func() time.Time { return fixedNow }
	return repo
}

// TestNewCachingTaskRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingTaskRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "tasks"},
		{"negative ttl uses default", -1 * time.Minute, "", 5 * time.Minute, "tasks"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingTaskRepository(nil, tt.ttl, &mockTaskRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingTaskRepository_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingTaskRepository_NilRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := &mockTaskRepository{
		listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
			calls++
			return []entity.Task{taskA}, nil
		},
		createFn: func(ctx context.Context, task *entity.Task) error {
			calls++
			return nil
		},
	}

	repo := NewCachingTaskRepository(nil, 5*time.Minute, inner, "tasks")

	tasks, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
	if err := repo.Create(context.Background(), &entity.Task{UserID: ownerA}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", calls)
	}
}

// TestCachingTaskRepository_List_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingTaskRepository_List_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal([]entity.Task{taskA})
	mock.ExpectGet(genKeyA).SetVal("7")
	mock.ExpectGet(listKeyA).SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockTaskRepository{
		listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := newTestRepo(rdb, inner)
	tasks, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(tasks) != 1 || tasks[0].ID != taskA.ID {
		t.Errorf("unexpected tasks from cache: %+v", tasks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingTaskRepository_List_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingTaskRepository_List_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.Task{taskA}
	expectedJSON, _ := json.Marshal(expected)

	mock.ExpectGet(genKeyA).SetVal("7")
	mock.ExpectGet(listKeyA).RedisNil()
	mock.ExpectSet(listKeyA, expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockTaskRepository{
		listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
			return expected, nil
		},
	}

	repo := newTestRepo(rdb, inner)
	tasks, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingTaskRepository_Generation_Seed は世代カウンタが無い場合に時刻から初期化されることを検証します。
func TestCachingTaskRepository_Generation_Seed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		wantKey string
	}{
		{
			name: "this request seeds the counter",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(genKeyA).RedisNil()
				mock.ExpectSetNX(genKeyA, seedA, 0).SetVal(true)
			},
			wantKey: "tasks:" + ownerA.String() + ":" + seedA + ":list",
		},
		{
			name: "another request seeded it first",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectGet(genKeyA).RedisNil()
				mock.ExpectSetNX(genKeyA, seedA, 0).SetVal(false)
				mock.ExpectGet(genKeyA).SetVal("7")
			},
			wantKey: listKeyA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()

			expected := []entity.Task{taskA}
			expectedJSON, _ := json.Marshal(expected)

			tt.setup(mock)
			mock.ExpectGet(tt.wantKey).RedisNil()
			mock.ExpectSet(tt.wantKey, expectedJSON, 5*time.Minute).SetVal("OK")

			inner := &mockTaskRepository{
				listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
					return expected, nil
				},
			}

			repo := newTestRepo(rdb, inner)
			if _, err := repo.ListByOwner(context.Background(), ownerA); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled mock expectations: %v", err)
			}
		})
	}
}

// TestCachingTaskRepository_List_RedisDown はRedis障害時もDBの結果を返し、キャッシュへ書き込まないことを検証します。
func TestCachingTaskRepository_List_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(genKeyA).SetErr(errors.New("connection refused"))

	inner := &mockTaskRepository{
		listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
			return []entity.Task{taskA}, nil
		},
	}

	repo := newTestRepo(rdb, inner)
	tasks, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("cache faults must not fail the request: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected cache operations: %v", err)
	}
}

// TestCachingTaskRepository_List_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingTaskRepository_List_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet(genKeyA).SetVal("7")
	mock.ExpectGet(listKeyA).RedisNil()

	inner := &mockTaskRepository{
		listFn: func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
			return nil, expectedErr
		},
	}

	repo := newTestRepo(rdb, inner)
	_, err := repo.ListByOwner(context.Background(), ownerA)

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingTaskRepository_Find_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingTaskRepository_Find_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(&taskA)

	mock.ExpectGet(genKeyA).SetVal("7")
	mock.ExpectGet(itemKeyA).SetVal("invalid json")
	mock.ExpectDel(itemKeyA).SetVal(1)
	mock.ExpectSet(itemKeyA, expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockTaskRepository{
		findFn: func(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
			task := taskA
			return &task, nil
		},
	}

	repo := newTestRepo(rdb, inner)
	task, err := repo.FindOwned(context.Background(), taskA.ID, ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != taskA.ID {
		t.Errorf("expected task %s, got %s", taskA.ID, task.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingTaskRepository_Find_NotFoundIsNotCached は存在しない（または他人の）タスクがキャッシュされないことを検証します。
func TestCachingTaskRepository_Find_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	otherOwner := uuid.New()
	prefix := "tasks:" + otherOwner.String() + ":"
	mock.ExpectGet(prefix + "gen").SetVal("3")
	mock.ExpectGet(prefix + "3:item:" + taskA.ID.String()).RedisNil()

	repo := newTestRepo(rdb, &mockTaskRepository{})
	_, err := repo.FindOwned(context.Background(), taskA.ID, otherOwner)

	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected cache writes: %v", err)
	}
}

// TestCachingTaskRepository_WritesInvalidateOwner は書き込み後に所有者の世代が進むことを検証します。
func TestCachingTaskRepository_WritesInvalidateOwner(t *testing.T) {
	t.Parallel()

	inner := &mockTaskRepository{
		updateFn: func(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error) {
			task := taskA
			return &task, nil
		},
	}

	writes := []struct {
		name string
		run  func(repo *CachingTaskRepository) error
	}{
		{"create", func(repo *CachingTaskRepository) error {
			return repo.Create(context.Background(), &entity.Task{UserID: ownerA, Title: "new"})
		}},
		{"update", func(repo *CachingTaskRepository) error {
			_, err := repo.UpdateOwned(context.Background(), taskA.ID, ownerA, entity.TaskPatch{})
			return err
		}},
		{"delete", func(repo *CachingTaskRepository) error {
			return repo.DeleteOwned(context.Background(), taskA.ID, ownerA)
		}},
	}

	for _, w := range writes {
		t.Run(w.name, func(t *testing.T) {
			t.Parallel()

			rdb, mock := redismock.NewClientMock()
			defer func() { _ = rdb.Close() }()

			mock.ExpectSetNX(genKeyA, seedA, 0).SetVal(false)
			mock.ExpectIncr(genKeyA).SetVal(8)

			repo := newTestRepo(rdb, inner)
			if err := w.run(repo); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled mock expectations: %v", err)
			}
		})
	}
}

// TestCachingTaskRepository_StaleFillAfterDelete は削除と競合した読み取りが古い一覧を書き戻しても、
// 次の読み取りでは削除後の結果が返ることを検証します。
func TestCachingTaskRepository_StaleFillAfterDelete(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	staleJSON, _ := json.Marshal([]entity.Task{taskA})
	freshJSON, _ := json.Marshal([]entity.Task{})
	listKeyNext := "tasks:" + ownerA.String() + ":8:list"

	// 読み取り: 世代7でミス
	mock.ExpectGet(genKeyA).SetVal("7")
	mock.ExpectGet(listKeyA).RedisNil()
	// DB読み取り中に削除が完了し、世代が8へ進む
	mock.ExpectSetNX(genKeyA, seedA, 0).SetVal(false)
	mock.ExpectIncr(genKeyA).SetVal(8)
	// 読み取りは削除前の一覧を世代7へ書き戻す
	mock.ExpectSet(listKeyA, staleJSON, 5*time.Minute).SetVal("OK")
	// 次の読み取りは世代8を参照する
	mock.ExpectGet(genKeyA).SetVal("8")
	mock.ExpectGet(listKeyNext).RedisNil()
	mock.ExpectSet(listKeyNext, freshJSON, 5*time.Minute).SetVal("OK")

	var repo *CachingTaskRepository
	deleted := false
	inner := &mockTaskRepository{
		deleteFn: func(ctx context.Context, id, ownerID uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	inner.listFn = func(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
		if deleted {
			return []entity.Task{}, nil
		}
		snapshot := []entity.Task{taskA}
		if err := repo.DeleteOwned(ctx, taskA.ID, ownerA); err != nil {
			t.Fatalf("unexpected delete error: %v", err)
		}
		return snapshot, nil
	}
	repo = newTestRepo(rdb, inner)

	first, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected the racing read to see 1 task, got %d", len(first))
	}

	second, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("deleted task served from cache: %+v", second)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingTaskRepository_FailedWriteKeepsCache は書き込み失敗時にキャッシュを操作しないことを検証します。
func TestCachingTaskRepository_FailedWriteKeepsCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockTaskRepository{
		deleteFn: func(ctx context.Context, id, ownerID uuid.UUID) error {
			return domain.ErrTaskNotFound
		},
	}

	repo := newTestRepo(rdb, inner)
	err := repo.DeleteOwned(context.Background(), taskA.ID, ownerA)

	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected cache operations: %v", err)
	}
}
