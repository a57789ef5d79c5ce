package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/feed"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// fakeStore is an in-memory Store. It hands out copies so the reconciler
// cannot mutate persisted state without going through Save.
type fakeStore struct {
	entries map[string]*domain.CatalogEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]*domain.CatalogEntry)}
}

func (f *fakeStore) ListCatalogEntries(context.Context) ([]*domain.CatalogEntry, error) {
	out := make([]*domain.CatalogEntry, 0, len(f.entries))
	for _, e := range f.entries {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeStore) SaveCatalogEntries(_ context.Context, entries []*domain.CatalogEntry) error {
	for _, e := range entries {
		clone := *e
		f.entries[e.ID] = &clone
	}
	return nil
}

func (f *fakeStore) byTitle(title string) *domain.CatalogEntry {
	for _, e := range f.entries {
		if e.Title == title {
			return e
		}
	}
	return nil
}

func newTestReconciler(store Store) *Reconciler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconciler(store, DefaultCorrections(), logger, ops.NewNoopNotifier())
}

func testBatch() []feed.Record {
	return []feed.Record{
		{
			Date: "20250101", Title: "Jump!! Jump!! Jump!!", Artist: "ももいろクローバーZ",
			ID: "1", ChapID: "70001", Chapter: "01 ブート",
			Copyright: "-", LevBas: "10", LevAdv: "12", LevExc: "13+", LevMas: "14",
		},
		{
			Date: "20250215", Title: "タテマエと本音の大乱闘", Artist: "ナナヲアカリ",
			ID: "2", ChapID: "70001", Chapter: "01 ブート",
			Copyright: "(C)ドワンゴ", LevBas: "3", LevAdv: "6", LevExc: "9.7", LevMas: "12.9",
		},
	}
}

func TestReconcile_InsertsNewRecords(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)

	result, err := r.Reconcile(context.Background(), testBatch())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Inserted != 2 || result.Updated != 0 || result.Restored != 0 || result.SoftDeleted != 0 {
		t.Fatalf("result = %+v, want 2 inserted only", result)
	}
	if len(store.entries) != 2 {
		t.Fatalf("store has %d entries, want 2", len(store.entries))
	}

	e := store.byTitle("Jump!! Jump!! Jump!!")
	if e == nil {
		t.Fatal("inserted entry not found")
	}
	if e.ID == "" || e.ID[:6] != "music-" {
		t.Errorf("ID = %q, want music- prefix", e.ID)
	}
	if e.Deleted {
		t.Error("fresh entry is soft-deleted")
	}
	if e.Copyright != "" {
		t.Errorf("Copyright = %q, want \"-\" folded to absent", e.Copyright)
	}
	if e.LevExc != "13+" {
		t.Errorf("LevExc = %q, want raw feed string", e.LevExc)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testBatch()); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	before := make(map[string]domain.CatalogEntry)
	for id, e := range store.entries {
		before[id] = *e
	}

	result, err := r.Reconcile(ctx, testBatch())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	if result != (Result{}) {
		t.Fatalf("second run result = %+v, want all zeros", result)
	}
	for id, want := range before {
		got := store.entries[id]
		if got == nil || *got != want {
			t.Errorf("entry %s changed on the second run", id)
		}
	}
}

func TestReconcile_SweepSoftDeletesMissing(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testBatch()); err != nil {
		t.Fatalf("seed Reconcile: %v", err)
	}

	result, err := r.Reconcile(ctx, testBatch()[:1])
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.SoftDeleted != 1 {
		t.Fatalf("result = %+v, want 1 soft-deleted", result)
	}

	gone := store.byTitle("タテマエと本音の大乱闘")
	if gone == nil || !gone.Deleted {
		t.Error("missing entry was not soft-deleted")
	}
	kept := store.byTitle("Jump!! Jump!! Jump!!")
	if kept == nil || kept.Deleted {
		t.Error("present entry was soft-deleted")
	}
}

func TestReconcile_RestoresUnchangedDeleted(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testBatch()); err != nil {
		t.Fatalf("seed Reconcile: %v", err)
	}
	if _, err := r.Reconcile(ctx, testBatch()[:1]); err != nil {
		t.Fatalf("shrink Reconcile: %v", err)
	}

	result, err := r.Reconcile(ctx, testBatch())
	if err != nil {
		t.Fatalf("restore Reconcile: %v", err)
	}

	if result.Restored != 1 || result.Inserted != 0 || result.Updated != 0 {
		t.Fatalf("result = %+v, want 1 restored only", result)
	}
	restored := store.byTitle("タテマエと本音の大乱闘")
	if restored == nil || restored.Deleted {
		t.Error("entry was not restored")
	}
}

func TestReconcile_UpdatesChangedFields(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testBatch()); err != nil {
		t.Fatalf("seed Reconcile: %v", err)
	}

	batch := testBatch()
	batch[0].LevMas = "14.5"

	result, err := r.Reconcile(ctx, batch)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Updated != 1 || result.Inserted != 0 || result.Restored != 0 {
		t.Fatalf("result = %+v, want 1 updated only", result)
	}

	e := store.byTitle("Jump!! Jump!! Jump!!")
	if e.LevMas != "14.5" {
		t.Errorf("LevMas = %q, want updated value", e.LevMas)
	}
	if e.Deleted {
		t.Error("updated entry is still soft-deleted")
	}
}

func TestReconcile_UpdateOfDeletedRowIsUpdateNotRestore(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, testBatch()); err != nil {
		t.Fatalf("seed Reconcile: %v", err)
	}
	if _, err := r.Reconcile(ctx, testBatch()[:1]); err != nil {
		t.Fatalf("shrink Reconcile: %v", err)
	}

	batch := testBatch()
	batch[1].LevMas = "13"

	result, err := r.Reconcile(ctx, batch)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Updated != 1 || result.Restored != 0 {
		t.Fatalf("result = %+v, want the returning changed row counted as update", result)
	}
	e := store.byTitle("タテマエと本音の大乱闘")
	if e.Deleted {
		t.Error("updated entry is still soft-deleted")
	}
}

func TestReconcile_AppliesArtistCorrectionBeforeMatching(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	// First run delivers the corrected spelling, second run the raw one.
	// Both must land on the same mirror row.
	corrected := []feed.Record{{Title: "Help me, ERINNNNNN!!", Artist: "ビートまりお（COOL&CREATE）"}}
	raw := []feed.Record{{Title: "Help me, ERINNNNNN!!", Artist: "ビートまりお"}}

	if _, err := r.Reconcile(ctx, corrected); err != nil {
		t.Fatalf("seed Reconcile: %v", err)
	}
	result, err := r.Reconcile(ctx, raw)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Inserted != 0 {
		t.Fatalf("result = %+v, raw spelling split the row", result)
	}
	if len(store.entries) != 1 {
		t.Fatalf("store has %d entries, want 1", len(store.entries))
	}
}

func TestReconcile_DuplicateLunaticPairNeverMerges(t *testing.T) {
	store := newFakeStore()
	r := newTestReconciler(store)
	ctx := context.Background()

	batch := []feed.Record{
		{Title: "Perfect Shining!!", Artist: "A", LevExc: "0", LevLnt: "0"},
		{Title: "Perfect Shining!!", Artist: "A", LevExc: "13", LevLnt: "13.7"},
	}

	result, err := r.Reconcile(ctx, batch)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Inserted != 2 {
		t.Fatalf("result = %+v, want both Lunatic rows inserted", result)
	}

	// Repeated ingestion keeps them separate.
	result, err = r.Reconcile(ctx, batch)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if result != (Result{}) {
		t.Fatalf("second run result = %+v, want all zeros", result)
	}
	if len(store.entries) != 2 {
		t.Fatalf("store has %d entries, want the pair kept distinct", len(store.entries))
	}
}
