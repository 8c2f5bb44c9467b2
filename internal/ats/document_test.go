package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromAny 只有顶层非对象才报错
func TestFromAny(t *testing.T) {
	doc, err := FromAny(map[string]any{"name": "Li"})
	require.NoError(t, err)
	assert.Equal(t, "Li", doc.Str("name"))

	doc, err = FromAny(Document{"name": "Wang"})
	require.NoError(t, err)
	assert.Equal(t, "Wang", doc.Str("name"))

	var nilMap map[string]any
	doc, err = FromAny(nilMap)
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)

	for _, bad := range []any{"text", 42, []any{"a"}, true, nil} {
		_, err = FromAny(bad)
		assert.ErrorIs(t, err, ErrNotAnObject, "输入 %v 应返回ErrNotAnObject", bad)
	}
}

// TestDocumentAccessorsDegrade 形状异常的值一律降级为零值
func TestDocumentAccessorsDegrade(t *testing.T) {
	doc := Document{
		"str":  "hello",
		"num":  3.14,
		"obj":  map[string]any{"k": "v"},
		"list": []any{"a", "b"},
	}

	assert.Equal(t, "hello", doc.Str("str"))
	assert.Equal(t, "", doc.Str("num"), "非字符串值应降级为空串")
	assert.Equal(t, "", doc.Str("missing"))

	assert.Equal(t, "v", doc.Map("obj").Str("k"))
	assert.Nil(t, doc.Map("str"), "非对象值应降级为nil")
	assert.Nil(t, doc.Map("missing"))

	assert.Len(t, doc.List("list"), 2)
	assert.Nil(t, doc.List("obj"), "非数组值应降级为nil")

	assert.True(t, doc.Has("str"))
	assert.False(t, doc.Has("missing"))
}

// TestTruthy 宽松真值判断
func TestTruthy(t *testing.T) {
	falsy := []any{nil, "", false, 0.0, 0, map[string]any{}, []any{}, Document{}}
	for _, v := range falsy {
		assert.False(t, truthy(v), "%#v 应判定为空", v)
	}

	tru := []any{"x", true, 1.0, -2, map[string]any{"k": 1}, []any{0}}
	for _, v := range tru {
		assert.True(t, truthy(v), "%#v 应判定为非空", v)
	}
}

// TestDocumentTextDeterministic 规范化文本对相同内容必须一致
func TestDocumentTextDeterministic(t *testing.T) {
	a := Document{"b": "2", "a": "1", "c": map[string]any{"y": 2.0, "x": 1.0}}
	b := Document{"c": map[string]any{"x": 1.0, "y": 2.0}, "a": "1", "b": "2"}
	assert.Equal(t, a.Text(), b.Text())
}

// TestEntryDocsMalformedEntries 非对象的数组元素降级为空条目而不是中断
func TestEntryDocsMalformedEntries(t *testing.T) {
	docs := entryDocs([]any{map[string]any{"position": "Engineer"}, "scalar", 7, nil})
	require.Len(t, docs, 4)
	assert.Equal(t, "Engineer", docs[0].Str("position"))
	for _, d := range docs[1:] {
		assert.False(t, truthy(d["position"]))
	}
}
