package planstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan_cache.db")
	st, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	return st
}

func TestSQLiteStore_PutGet(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLiteStore(t)
	defer st.Close()

	key := PlanKey{0xaa, 0xbb}
	snap := &JobGraphSnapshot{
		Key:         key,
		VertexCount: 5,
		EdgeCount:   4,
		Payload:     []byte(`{"vertices":5}`),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	if err := st.Put(ctx, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	loaded, ok, err := st.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to be found")
	}
	if loaded.VertexCount != 5 || loaded.EdgeCount != 4 {
		t.Errorf("unexpected snapshot: %+v", loaded)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLiteStore(t)
	defer st.Close()

	_, ok, err := st.Get(ctx, PlanKey{0x01})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unknown key")
	}
}

func TestSQLiteStore_ClosedStoreErrors(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLiteStore(t)
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, _, err := st.Get(ctx, PlanKey{}); err == nil {
		t.Error("expected error from Get on closed store")
	}
	if err := st.Put(ctx, &JobGraphSnapshot{Key: PlanKey{}}); err == nil {
		t.Error("expected error from Put on closed store")
	}
	if err := st.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got: %v", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plan_cache.db")

	st1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	key := PlanKey{0x42}
	if err := st1.Put(ctx, &JobGraphSnapshot{Key: key, VertexCount: 2, EdgeCount: 1, Payload: []byte("x")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteStore: %v", err)
	}
	defer st2.Close()

	loaded, ok, err := st2.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if loaded.VertexCount != 2 {
		t.Errorf("expected VertexCount=2 after reopen, got %d", loaded.VertexCount)
	}
}

func TestSQLiteStore_InterfaceContract(t *testing.T) {
	st := newTestSQLiteStore(t)
	defer st.Close()
	var _ Store = st
}
