package notice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotice_String(t *testing.T) {
	assert.Equal(t, "[success] Saved COT-1001", Successf("Saved %s", "COT-1001").String())
	assert.Equal(t, "[warning] careful", Warningf("careful").String())
	assert.Equal(t, "[info] hi", Infof("hi").String())
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestNotice_IsError(t *testing.T) {
	assert.True(t, Errorf("boom").IsError())
	assert.False(t, Infof("fine").IsError())
}
