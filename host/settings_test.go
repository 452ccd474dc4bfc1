package host

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func evalInt(s string) (int64, error) {
	return strconv.ParseInt(s, 0, 64)
}

func TestSettingsSet(t *testing.T) {
	assert := assert.New(t)
	s := newSettings()

	assert.NoError(s.Set("hex", "true", evalInt))
	assert.True(s.HexMode)

	assert.NoError(s.Set("NextDisasm", "0x1234", evalInt))
	assert.Equal(uint16(0x1234), s.NextDisasmAddr)

	assert.NoError(s.Set("runcycle", "1000000", evalInt))
	assert.Equal(uint64(1000000), s.RunCycleLimit)

	assert.ErrorIs(s.Set("next", "1", evalInt), errSettingNotFound)
	assert.ErrorIs(s.Set("nextmemdumpaddr", "0x10000", evalInt), errSettingValue)
	assert.ErrorIs(s.Set("memdumpbytes", "-1", evalInt), errSettingValue)
	assert.Equal(32, s.MemDumpBytes)
}
