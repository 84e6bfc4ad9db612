package session

import (
	"encoding/json/v2"
	"fmt"
	"strconv"
	"time"

	"github.com/zeptools/gw-dbsession/nullable"
	"github.com/zeptools/gw-dbsession/sqldb"
)

// Kind is the closed set of bind kinds. The kind is decided once when the
// Value is constructed; the execution path never re-inspects runtime types.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindBool
	KindText
	KindList // expanded to scalars before execution, never bound directly
)

// Value is a bind value tagged with its Kind.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
	list []Value
}

func Null() Value         { return Value{kind: KindNull} }
func Int(v int64) Value   { return Value{kind: KindInt, i: v} }
func Bool(v bool) Value   { return Value{kind: KindBool, b: v} }
func Text(v string) Value { return Value{kind: KindText, s: v} }

func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Elems() []Value { return v.list }

// Arg yields the driver argument for a scalar Value.
func (v Value) Arg() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// MarshalJSON serializes the Value for the failure audit log.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.s)
	}
}

// Of maps an arbitrary Go value to its bind kind: integers stay integer,
// booleans stay boolean, nil maps to Null, slices become List, anything
// else binds as text.
func Of(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case []byte:
		return Text(string(t))
	case float32:
		return Text(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case float64:
		return Text(strconv.FormatFloat(t, 'g', -1, 64))
	case time.Time:
		return Text(t.Format("2006-01-02 15:04:05"))
	case nullable.Int:
		if t.IsNil() {
			return Null()
		}
		return Int(t.ForceValue())
	case nullable.String:
		if t.IsNil() {
			return Null()
		}
		return Text(t.ForceValue())
	case nullable.Time:
		if t.IsNil() {
			return Null()
		}
		return Text(t.ForceValue().Format("2006-01-02 15:04:05"))
	case []Value:
		return List(t...)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = Of(e)
		}
		return List(elems...)
	case []int:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = Int(int64(e))
		}
		return List(elems...)
	case []int64:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = Int(e)
		}
		return List(elems...)
	case []string:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = Text(e)
		}
		return List(elems...)
	default:
		return Text(fmt.Sprint(t))
	}
}

// Params maps placeholder names to bind values. Numeric keys are treated
// as 1-based positional parameters.
type Params map[string]Value

// P builds Params from loose values via Of.
func P(kv map[string]any) Params {
	params := make(Params, len(kv))
	for k, v := range kv {
		params[k] = Of(v)
	}
	return params
}

// buildParams expands sequence-valued entries for `IN (:name)` clauses:
// an empty sequence collapses the clause to `IN (NULL)`, a non-empty one
// becomes `:name_0, :name_1, ...` with one scalar entry per element.
// After it returns, every remaining value is scalar.
func buildParams(query string, params Params) (string, Params) {
	flat := make(Params, len(params))
	for name, v := range params {
		if v.Kind() != KindList {
			flat[name] = v
			continue
		}
		elems := v.Elems()
		if len(elems) == 0 {
			query = sqldb.CollapseEmptyInList(query, name)
			continue
		}
		query = sqldb.ExpandInList(query, name, len(elems))
		for i, e := range elems {
			flat[name+"_"+strconv.Itoa(i)] = e
		}
	}
	return query, flat
}

// positionalOnly reports whether every key is numeric (positional binding).
func positionalOnly(params Params) bool {
	if len(params) == 0 {
		return false
	}
	for k := range params {
		if _, err := strconv.Atoi(k); err != nil {
			return false
		}
	}
	return true
}

// positionalArgs orders numeric-keyed values by their 1-based position.
func positionalArgs(params Params) ([]any, error) {
	args := make([]any, len(params))
	for k, v := range params {
		pos, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("session: mixed positional and named parameters")
		}
		if pos < 1 || pos > len(params) {
			return nil, fmt.Errorf("session: positional parameter %d out of range", pos)
		}
		args[pos-1] = v.Arg()
	}
	return args, nil
}
