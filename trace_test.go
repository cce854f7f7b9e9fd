package jcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceRender(t *testing.T) {
	var tr *Trace
	tr = tr.Field("rows").Index(0).Field("elements").Index(0).Field("distance").Field("value").Message("missing")
	assert.Equal(t, ".rows[0].elements[0].distance.value(missing)", tr.Render())
}

func TestTraceRenderEmpty(t *testing.T) {
	var tr *Trace
	assert.Equal(t, "", tr.Render())
}

func TestTraceRenderSingleMessage(t *testing.T) {
	var tr *Trace
	tr = tr.Message("ambiguous either, both present")
	assert.Equal(t, "(ambiguous either, both present)", tr.Render())
}

func TestDecodeErrorError(t *testing.T) {
	err := raise(nil, "missing")
	assert.Equal(t, "(missing)", err.Error())
}
