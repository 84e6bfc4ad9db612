package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeptools/gw-dbsession/nullable"
)

func TestOfKinds(t *testing.T) {
	assert.Equal(t, KindNull, Of(nil).Kind())
	assert.Equal(t, KindInt, Of(42).Kind())
	assert.Equal(t, KindInt, Of(int64(42)).Kind())
	assert.Equal(t, KindInt, Of(uint16(7)).Kind())
	assert.Equal(t, KindBool, Of(true).Kind())
	assert.Equal(t, KindText, Of("hello").Kind())
	assert.Equal(t, KindText, Of([]byte("raw")).Kind())
	assert.Equal(t, KindText, Of(3.14).Kind())
	assert.Equal(t, KindList, Of([]int{1, 2}).Kind())
	assert.Equal(t, KindList, Of([]any{1, "a"}).Kind())
}

func TestOfNullable(t *testing.T) {
	assert.Equal(t, KindInt, Of(nullable.NewInt(5)).Kind())
	assert.Equal(t, int64(5), Of(nullable.NewInt(5)).Arg())
	assert.Equal(t, KindNull, Of(nullable.NilInt()).Kind())
	assert.Equal(t, KindText, Of(nullable.NewString("x")).Kind())
	assert.Equal(t, KindNull, Of(nullable.NilString()).Kind())
	assert.Equal(t, KindNull, Of(nullable.NilTime()).Kind())
}

func TestArg(t *testing.T) {
	assert.Nil(t, Null().Arg())
	assert.Equal(t, int64(9), Int(9).Arg())
	assert.Equal(t, true, Bool(true).Arg())
	assert.Equal(t, "s", Text("s").Arg())
}

func TestBuildParamsExpandsList(t *testing.T) {
	query, flat := buildParams(
		"SELECT * FROM t WHERE id IN (:ids)",
		P(map[string]any{"ids": []int{1, 2, 3}}),
	)
	assert.Equal(t, "SELECT * FROM t WHERE id IN (:ids_0, :ids_1, :ids_2)", query)
	assert.NotContains(t, flat, "ids")
	assert.Equal(t, int64(1), flat["ids_0"].Arg())
	assert.Equal(t, int64(2), flat["ids_1"].Arg())
	assert.Equal(t, int64(3), flat["ids_2"].Arg())
	assert.Len(t, flat, 3)
}

func TestBuildParamsCollapsesEmptyList(t *testing.T) {
	query, flat := buildParams(
		"SELECT * FROM t WHERE id IN (:ids) AND status = :status",
		Params{"ids": List(), "status": Int(1)},
	)
	assert.Equal(t, "SELECT * FROM t WHERE id IN (NULL) AND status = :status", query)
	assert.NotContains(t, flat, "ids")
	assert.Len(t, flat, 1)
}

func TestBuildParamsScalarsPassThrough(t *testing.T) {
	query, flat := buildParams(
		"SELECT * FROM t WHERE id = :id",
		Params{"id": Int(7)},
	)
	assert.Equal(t, "SELECT * FROM t WHERE id = :id", query)
	assert.Equal(t, int64(7), flat["id"].Arg())
}

func TestPositionalHelpers(t *testing.T) {
	params := Params{"1": Text("a"), "2": Int(2), "3": Bool(false)}
	assert.True(t, positionalOnly(params))
	args, err := positionalArgs(params)
	assert.NoError(t, err)
	assert.Equal(t, []any{"a", int64(2), false}, args)

	assert.False(t, positionalOnly(Params{"1": Int(1), "id": Int(2)}))
	assert.False(t, positionalOnly(Params{}))
}

func TestSerializeParams(t *testing.T) {
	got := serializeParams(Params{"id": Int(1), "name": Null()})
	assert.Contains(t, got, `"id":1`)
	assert.Contains(t, got, `"name":null`)
	assert.Equal(t, "{}", serializeParams(nil))
}
