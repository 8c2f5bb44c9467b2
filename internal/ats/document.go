package ats // ATS简历兼容性评分引擎

import (
	"encoding/json"
	"errors"
)

// ErrNotAnObject 顶层输入不是JSON对象时返回的错误
// 这是引擎唯一会快速失败的情况，其余任何结构异常都降级为"字段缺失"继续评分
var ErrNotAnObject = errors.New("resume payload is not a JSON object")

// Document 松散结构的简历文档，即解码后的JSON对象树
// 所有访问器对形状异常的值一律返回零值，绝不panic，也绝不修改底层数据
type Document map[string]any

// FromAny 把任意解码值转换为Document
// 只有顶层不是对象才报错，嵌套层级的形状问题留给访问器降级处理
func FromAny(v any) (Document, error) {
	switch m := v.(type) {
	case Document:
		if m == nil {
			return Document{}, nil
		}
		return m, nil
	case map[string]any:
		if m == nil {
			return Document{}, nil
		}
		return Document(m), nil
	default:
		return nil, ErrNotAnObject
	}
}

// Has 判断顶层键是否存在（区分"键存在但值为空"与"键不存在"）
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Str 取顶层键的字符串值，非字符串或缺失时返回空串
func (d Document) Str(key string) string {
	return asString(d[key])
}

// Map 取顶层键的对象值，非对象或缺失时返回nil
func (d Document) Map(key string) Document {
	return asMap(d[key])
}

// List 取顶层键的数组值，非数组或缺失时返回nil
func (d Document) List(key string) []any {
	return asList(d[key])
}

// Text 文档的规范化JSON文本，用于各检查器的词法分析
// Go的map序列化按键名排序，相同输入必然得到相同文本
func (d Document) Text() string {
	return jsonText(map[string]any(d))
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) Document {
	switch m := v.(type) {
	case Document:
		return m
	case map[string]any:
		return Document(m)
	default:
		return nil
	}
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// entryDocs 把数组元素逐个转成Document，非对象元素降级为空文档
// 这样单个畸形条目只会按"字段全缺"计分，不会中断整份报告
func entryDocs(list []any) []Document {
	docs := make([]Document, 0, len(list))
	for _, v := range list {
		docs = append(docs, asMap(v))
	}
	return docs
}

// truthy 判断值是否"非空"，语义对齐原产品的宽松真值判断：
// nil、空串、false、数值0、空对象、空数组均视为空
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		return t.String() != "0" && t.String() != ""
	case map[string]any:
		return len(t) > 0
	case Document:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// jsonText 任意值的JSON文本，序列化失败时返回空串（评分时等同于无内容）
func jsonText(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
