package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TestRecordErrorNilSafe 记录函数在span或错误缺失时必须安全返回
func TestRecordErrorNilSafe(t *testing.T) {
	err := errors.New("boom")
	span := trace.SpanFromContext(context.Background())

	assert.NotPanics(t, func() {
		RecordError(nil, err, ErrorTypeInternal)
		RecordError(span, nil, ErrorTypeInternal)
		RecordError(span, err, ErrorTypeDB)
	})

	assert.NotPanics(t, func() {
		RecordErrorWithInfo(nil, err, ErrorTypeDB)
		RecordErrorWithInfo(span, nil, ErrorTypeDB)
		RecordErrorWithInfo(span, err, ErrorTypeDB, attribute.String("submission_uuid", "x"))
	})

	assert.NotPanics(t, func() {
		RecordHTTPError(nil, err, 500)
		RecordHTTPError(span, nil, 400)
		RecordHTTPError(span, err, 400)
		RecordHTTPError(span, err, 502)
		RecordHTTPError(span, err, 100)
	})
}
