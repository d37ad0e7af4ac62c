package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlankRecord_Defaults(t *testing.T) {
	r := NewBlankRecord()

	assert.Equal(t, "0", r.Str(SectionBudget, "used"))
	assert.Equal(t, DefaultCurrency, r.Str(SectionBudget, "currency"))
	assert.True(t, r.Blank(FieldProjectName))
	assert.True(t, r.Blank(SectionLocation, "startPoint"))
	assert.Empty(t, r.Teams())

	v, ok := r.Get(FieldPriority)
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestNewBlankState_SingleProject(t *testing.T) {
	s := NewBlankState()
	require.True(t, s.Valid())
	assert.Equal(t, StateStatusActive, s.Status)
	assert.Len(t, s.Projects, 1)
}

func TestState_ValidRejectsEmptyProjects(t *testing.T) {
	assert.False(t, (&State{Status: "active"}).Valid())
	assert.False(t, (*State)(nil).Valid())
}

func TestRecord_SetCreatesIntermediateObjects(t *testing.T) {
	r := Record{"location": "not an object"}
	r.Set("Nilüfer", SectionLocation, "district")
	r.Set("x", "extra", "nested", "leaf")

	assert.Equal(t, "Nilüfer", r.Str(SectionLocation, "district"))
	assert.Equal(t, "x", r.Str("extra", "nested", "leaf"))
}

func TestRecord_CloneIsDeep(t *testing.T) {
	r := NewBlankRecord()
	r.Set([]any{"Kazı Ekibi"}, SectionTeam, "assignedTeams")
	c := r.Clone()

	c.Set("Osmangazi", SectionLocation, "district")
	c.Set([]any{"Asfalt Ekibi"}, SectionTeam, "assignedTeams")

	assert.True(t, r.Blank(SectionLocation, "district"))
	assert.Equal(t, []string{"Kazı Ekibi"}, r.Teams())
}

func TestRecord_JSONRoundTripKeepsExtras(t *testing.T) {
	r := NewBlankRecord()
	r["contractor"] = "Yıldız İnşaat"

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var back Record
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, "Yıldız İnşaat", back.Str("contractor"))
	assert.Equal(t, "TRY", back.Str(SectionBudget, "currency"))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", ValueString(nil))
	assert.Equal(t, "1500", ValueString(float64(1500)))
	assert.Equal(t, "12.5", ValueString(12.5))
	assert.Equal(t, "a, b", ValueString([]any{"a", "b"}))
	assert.Equal(t, "true", ValueString(true))
}

func TestIsBlank(t *testing.T) {
	blank := []any{nil, "", float64(0), false, []any{}, map[string]any{}}
	for _, v := range blank {
		assert.True(t, IsBlank(v), "%#v should be blank", v)
	}
	set := []any{"x", float64(3), true, []any{"a"}, map[string]any{"k": nil}}
	for _, v := range set {
		assert.False(t, IsBlank(v), "%#v should be set", v)
	}
}

func TestPatch_DirectiveAndFields(t *testing.T) {
	p := Patch{
		KeySystemStatus:    "finished",
		KeyResponseMessage: "ok",
		FieldID:            "PRJ-HIJACK",
		FieldProjectName:   "Yol Yapımı",
	}
	d, ok := p.Directive()
	require.True(t, ok)
	assert.Equal(t, DirectiveFinished, d)
	assert.Equal(t, "ok", p.Message())

	fields := p.Fields()
	assert.Equal(t, map[string]any{FieldProjectName: "Yol Yapımı"}, fields)
	assert.Contains(t, p, KeySystemStatus, "original patch is not modified")
}

func TestPatch_UnknownStatusIsOrdinary(t *testing.T) {
	_, ok := Patch{KeySystemStatus: "SOMETHING_ELSE"}.Directive()
	assert.False(t, ok)
	_, ok = Patch{KeySystemStatus: 42.0}.Directive()
	assert.False(t, ok)
}

func TestPatch_PaymentCategory(t *testing.T) {
	assert.Equal(t, PaymentWater, Patch{KeyPaymentCategory: " su "}.PaymentCategory())
	assert.Equal(t, PaymentCategory(""), Patch{}.PaymentCategory())
}
