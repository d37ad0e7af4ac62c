package intake

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/store"
	"github.com/alexanderramin/intake/internal/testutil"
)

func TestReconciler_NiluferScenario(t *testing.T) {
	ctx := context.Background()
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"isim":    {"projectName": "Nilüfer Kütüphane İnşaatı"},
		"bütçe":   {"budget": map[string]any{"total": "10000000", "used": "2000000"}},
		"sıfırla": {domain.KeySystemStatus: "RESET_ALL"},
		"konum":   {"location": map[string]any{"district": "Nilüfer", "street": "Fethiye"}},
		"sokak":   {"location": map[string]any{"street": "Ertuğrul"}},
	}}
	loc := &fakeLocator{coords: map[string]string{
		"Nilüfer/Fethiye":  "40.2140, 28.9600",
		"Nilüfer/Ertuğrul": "40.2275, 28.9820",
	}}
	st := store.NewMemoryStore()
	r := newTestReconciler(t, interp, loc, st)
	require.Equal(t, "projectName", r.Question().Field)

	reply := r.Turn(ctx, "isim")
	assert.Equal(t, KindQuestion, reply.Kind)
	assert.Equal(t, "description", r.Question().Field)
	assert.Equal(t, r.Question().Text, reply.Text)

	r.Turn(ctx, "bütçe")
	p := r.Project()
	assert.Equal(t, "8000000", p.Str(domain.SectionBudget, "remaining"))
	assert.Equal(t, "10000000", p.Str(domain.SectionBudget, "total"))
	assert.Equal(t, "2000000", p.Str(domain.SectionBudget, "used"))

	reply = r.Turn(ctx, "sıfırla")
	assert.Equal(t, KindReset, reply.Kind)
	assert.Empty(t, reply.Question)
	assert.NotContains(t, reply.Text, assistantPrefix)
	assert.Empty(t, cmp.Diff(domain.NewBlankRecord(), r.Project()))
	assert.Equal(t, "projectName", r.Question().Field)

	stored, err := st.Load(ctx, "sess01")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(domain.NewBlankRecord(), stored.Project()))

	r.Turn(ctx, "konum")
	assert.Equal(t, "40.2140, 28.9600", r.Project().Str(domain.SectionLocation, "startPoint"))

	r.Turn(ctx, "sokak")
	assert.Equal(t, "40.2275, 28.9820", r.Project().Str(domain.SectionLocation, "startPoint"),
		"a street change re-resolves an already set start point")
}

func TestReconciler_UndoRestoresPreviousRecordAndQuestion(t *testing.T) {
	ctx := context.Background()
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"isim": {"projectName": "Park Yenileme"},
		"açıklama": {
			"description": "Çocuk parkı zemin yenilemesi",
			"budget":      map[string]any{"total": "500.000", "used": "100.000"},
		},
	}}
	st := store.NewMemoryStore()
	r := newTestReconciler(t, interp, nil, st)

	r.Turn(ctx, "isim")
	before := r.Project()
	questionBefore := r.Question()

	r.Turn(ctx, "açıklama")
	require.Equal(t, "400000", r.Project().Str(domain.SectionBudget, "remaining"))

	reply := r.Turn(ctx, "geri al")
	assert.Equal(t, KindUndo, reply.Kind)
	assert.Empty(t, cmp.Diff(before, r.Project()))
	assert.Equal(t, questionBefore, r.Question())
	assert.Equal(t, questionBefore.Text, reply.Question)
	assert.True(t, strings.HasPrefix(reply.Text, msgUndone))

	stored, err := st.Load(ctx, "sess01")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, stored.Project()), "undo is persisted")
	assert.Equal(t, 2, interp.calls, "undo never reaches the interpreter")
}

func TestReconciler_UndoWordsAreCaseInsensitive(t *testing.T) {
	interp := &scriptedInterpreter{}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())

	for _, word := range []string{"UNDO", "  Geri Al ", "geri", "Vazgeçtim"} {
		reply := r.Turn(context.Background(), word)
		assert.Equal(t, KindNothingToUndo, reply.Kind, word)
		assert.Equal(t, msgNothingToUndo, reply.Text)
	}
	assert.Zero(t, interp.calls)
}

func TestReconciler_UndoAfterReset(t *testing.T) {
	ctx := context.Background()
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"isim":  {"projectName": "Kanal Hattı"},
		"reset": {domain.KeySystemStatus: "reset_all"},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())

	r.Turn(ctx, "isim")
	named := r.Project()
	r.Turn(ctx, "reset")
	require.True(t, r.Project().Blank(domain.FieldProjectName))

	r.Turn(ctx, "undo")
	assert.Empty(t, cmp.Diff(named, r.Project()))
}

func TestReconciler_SnapshotSkippedWhenUnchanged(t *testing.T) {
	h := history{}
	s := domain.NewBlankState()
	assert.True(t, h.push(s, false))
	assert.False(t, h.push(s.Clone(), false))
	assert.True(t, h.push(s, true), "forced push always records")
	assert.Equal(t, 2, h.depth())

	s.Projects[0].Set("x", domain.FieldProjectName)
	assert.True(t, h.push(s, false))
	top, ok := h.pop()
	require.True(t, ok)
	s.Projects[0].Set("y", domain.FieldProjectName)
	assert.Equal(t, "x", top.Project().Str(domain.FieldProjectName), "snapshots are deep copies")
}

func TestReconciler_NonMutatingDirectives(t *testing.T) {
	ctx := context.Background()
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"fatura":   {domain.KeySystemStatus: "PAYMENT_REDIRECT", domain.KeyPaymentCategory: "su"},
		"ödeme":    {domain.KeySystemStatus: "PAYMENT_REDIRECT"},
		"bilinmez": {domain.KeySystemStatus: "PAYMENT_REDIRECT", domain.KeyPaymentCategory: "OTOPARK"},
		"hava":     {domain.KeySystemStatus: "IRRELEVANT"},
		"soru":     {domain.KeySystemStatus: "ANSWER", domain.KeyResponseMessage: "Bütçe TL cinsindendir."},
		"özet":     {domain.KeySystemStatus: "SHOW_SUMMARY"},
	}}
	st := store.NewMemoryStore()
	r := newTestReconciler(t, interp, nil, st)
	q := r.Question().Text
	blank := r.Project()

	reply := r.Turn(ctx, "fatura")
	assert.Equal(t, KindPaymentRedirect, reply.Kind)
	assert.Contains(t, reply.Text, domain.DefaultPaymentLinks[domain.PaymentWater])
	assert.Contains(t, reply.Text, "SU ÖDEME")
	assert.True(t, strings.HasSuffix(reply.Text, q))

	reply = r.Turn(ctx, "ödeme")
	assert.Contains(t, reply.Text, domain.DefaultPaymentLinks[domain.PaymentGeneral])

	reply = r.Turn(ctx, "bilinmez")
	assert.Contains(t, reply.Text, domain.DefaultPaymentLinks[domain.PaymentGeneral])

	reply = r.Turn(ctx, "hava")
	assert.Equal(t, KindIrrelevant, reply.Kind)
	assert.Equal(t, withQuestion(msgIrrelevant, q), reply.Text)

	reply = r.Turn(ctx, "soru")
	assert.Equal(t, KindAnswer, reply.Kind)
	assert.Contains(t, reply.Text, "Bütçe TL cinsindendir.")
	assert.Equal(t, q, reply.Question)

	reply = r.Turn(ctx, "özet")
	assert.Equal(t, KindSummary, reply.Kind)
	assert.Contains(t, reply.Text, "PROJE TAM DETAY RAPORU")
	assert.True(t, strings.HasSuffix(reply.Text, q))

	assert.Empty(t, cmp.Diff(blank, r.Project()))
	assert.Zero(t, r.UndoDepth())
	assert.Equal(t, q, r.Question().Text)
}

func TestReconciler_Cancelled(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"iptal": {domain.KeySystemStatus: "CANCELLED"},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())

	reply := r.Turn(context.Background(), "iptal")
	assert.Equal(t, SessionCancelled, reply.Text)
	assert.True(t, reply.Ended())
	assert.False(t, reply.Completed())
	assert.False(t, reply.Mutated)
}

func TestReconciler_FinishedMergesAndCompletes(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"evet": {domain.KeySystemStatus: "FINISHED", "team": map[string]any{"assignedTeams": []any{"Kazı Ekibi"}}},
	}}
	st := store.NewMemoryStore()
	r := newTestReconciler(t, interp, nil, st)

	reply := r.Turn(context.Background(), "evet")
	assert.True(t, reply.Completed())
	assert.Equal(t, SessionCompleted, reply.Text)

	stored, err := st.Load(context.Background(), "sess01")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kazı Ekibi"}, stored.Project().Teams())
	assert.Equal(t, "PRJ-TEST01", stored.Project().Str(domain.FieldID))
	_, leaked := stored.Project()[domain.KeySystemStatus]
	assert.False(t, leaked)
}

func TestReconciler_UnknownStatusIsOrdinaryPatch(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"x": {domain.KeySystemStatus: "MAYBE", "projectName": "Aydınlatma"},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())

	reply := r.Turn(context.Background(), "x")
	assert.Equal(t, KindQuestion, reply.Kind)
	assert.Equal(t, "Aydınlatma", r.Project().Str(domain.FieldProjectName))
	assert.Equal(t, 1, r.UndoDepth())
}

func TestReconciler_InterpreterFailureLeavesRecordAlone(t *testing.T) {
	for name, interp := range map[string]*scriptedInterpreter{
		"error": {err: errors.New("model timeout")},
		"empty": {patches: map[string]domain.Patch{"hmm": {}}},
	} {
		t.Run(name, func(t *testing.T) {
			obs := &recordingObserver{}
			r, err := NewReconciler(context.Background(), "sess01", Deps{
				Interpreter: interp,
				Store:       store.NewMemoryStore(),
				Observer:    obs,
			})
			require.NoError(t, err)
			blank := r.Project()

			reply := r.Turn(context.Background(), "hmm")
			assert.Equal(t, KindNotUnderstood, reply.Kind)
			assert.Equal(t, msgNotUnderstood, reply.Text)
			assert.Empty(t, cmp.Diff(blank, r.Project()))
			assert.Zero(t, r.UndoDepth())

			require.Len(t, obs.events, 1)
			assert.Error(t, obs.events[0].Err)
		})
	}
}

func TestReconciler_PassesOutstandingQuestion(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"Yol":  {"projectName": "Yol"},
		"kısa": {"description": "kısa"},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())
	first := r.Question().Text

	r.Turn(context.Background(), "Yol")
	second := r.Question().Text
	r.Turn(context.Background(), "kısa")

	assert.Equal(t, []string{first, second}, interp.lastQuestions)
}

func TestReconciler_SystemOwnedFieldsAreStripped(t *testing.T) {
	ctx := context.Background()
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"ilk": {"projectName": "A"},
		"hijack": {
			"id":          "PRJ-HIJACK",
			"projectCode": "KY-19990101",
			"detail":      map[string]any{"projectName": "fake"},
			"description": "B",
		},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())

	r.Turn(ctx, "ilk")
	p := r.Project()
	assert.Equal(t, "PRJ-TEST01", p.Str(domain.FieldID))
	assert.Equal(t, "KY-20250414", p.Str(domain.FieldProjectCode))
	assert.Equal(t, "2025-04-14T10:00:00Z", p.Str(domain.FieldLastUpdate))

	r.Turn(ctx, "hijack")
	p = r.Project()
	assert.Equal(t, "PRJ-TEST01", p.Str(domain.FieldID))
	assert.Equal(t, "KY-20250414", p.Str(domain.FieldProjectCode))
	assert.Equal(t, "A", p.Str(domain.FieldDetail, domain.FieldProjectName))
	assert.Equal(t, "B", p.Str(domain.FieldDetail, domain.FieldDescription))
}

func TestReconciler_DetailMirrorIsDeepCopy(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{
		"konum": {"location": map[string]any{"district": "Osmangazi"}},
	}}
	r := newTestReconciler(t, interp, nil, store.NewMemoryStore())
	r.Turn(context.Background(), "konum")

	p := r.state.Project()
	detail := p.Section(domain.FieldDetail)
	require.NotNil(t, detail)
	_, nested := detail[domain.FieldDetail]
	assert.False(t, nested, "mirror never contains itself")

	mirrored := detail[domain.SectionLocation].(map[string]any)
	mirrored["district"] = "Yıldırım"
	assert.Equal(t, "Osmangazi", p.Str(domain.SectionLocation, "district"))
}

func TestReconciler_ResumesStoredDocument(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, "sess01", testutil.NewTestState(testutil.WithName("Köprü Bakımı"))))

	r := newTestReconciler(t, &scriptedInterpreter{}, nil, st)
	assert.Equal(t, "Köprü Bakımı", r.Project().Str(domain.FieldProjectName))
	assert.Equal(t, "description", r.Question().Field)
}

func TestReconciler_EmptyStoredDocumentStartsBlank(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, "sess01", &domain.State{Status: "active", Projects: []domain.Record{}}))

	r := newTestReconciler(t, &scriptedInterpreter{}, nil, st)
	assert.Empty(t, cmp.Diff(domain.NewBlankRecord(), r.Project()))

	stored, err := st.Load(ctx, "sess01")
	require.NoError(t, err)
	assert.False(t, stored.Valid(), "existing document is left alone until a turn saves")
}

func TestReconciler_MissingDocumentIsCreated(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	newTestReconciler(t, &scriptedInterpreter{}, nil, st)

	stored, err := st.Load(ctx, "sess01")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(domain.NewBlankRecord(), stored.Project()))
}

func TestReconciler_CorruptDocumentSurvivesLoad(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	corrupt := []byte(`{"status":"active","projects":[{"projectName":"Kısmi`)
	require.NoError(t, os.WriteFile(st.Path("sess01"), corrupt, 0o644))

	r := newTestReconciler(t, &scriptedInterpreter{}, nil, st)
	assert.Empty(t, cmp.Diff(domain.NewBlankRecord(), r.Project()))

	after, err := os.ReadFile(st.Path("sess01"))
	require.NoError(t, err)
	assert.Equal(t, corrupt, after)
}

func TestReconciler_LoadErrorDoesNotSave(t *testing.T) {
	st := &unreadableStore{failingStore: failingStore{MemoryStore: store.NewMemoryStore()}}

	newTestReconciler(t, &scriptedInterpreter{}, nil, st)
	assert.Zero(t, st.saves)
}

func TestReconciler_SaveFailureDoesNotAbortTurn(t *testing.T) {
	interp := &scriptedInterpreter{patches: map[string]domain.Patch{"isim": {"projectName": "Meydan"}}}
	st := &failingStore{MemoryStore: store.NewMemoryStore()}
	obs := &recordingObserver{}
	r, err := NewReconciler(context.Background(), "sess01", Deps{Interpreter: interp, Store: st, Observer: obs})
	require.NoError(t, err)

	reply := r.Turn(context.Background(), "isim")
	assert.Equal(t, KindQuestion, reply.Kind)
	assert.Equal(t, "Meydan", r.Project().Str(domain.FieldProjectName))
	require.Len(t, obs.events, 1)
	assert.ErrorContains(t, obs.events[0].Err, "disk full")
	assert.Equal(t, 2, st.saves)
}

func TestNewReconciler_RequiresCollaborators(t *testing.T) {
	_, err := NewReconciler(context.Background(), "s", Deps{Store: store.NewMemoryStore()})
	assert.Error(t, err)
	_, err = NewReconciler(context.Background(), "s", Deps{Interpreter: &scriptedInterpreter{}})
	assert.Error(t, err)
}
