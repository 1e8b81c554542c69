package grbl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCollectSettings(t *testing.T) {
	s := CollectSettings(mustTokenize(t, "$30=1000\r\n$11=0.010\r\n$10=1\r\nok\r\n"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []Setting{10, 11, 30}, s.Keys())

	v, ok := s.Get(11)
	require.True(t, ok)
	assert.Equal(t, 0.01, v.Value())
	assert.Equal(t, "0.010", v.String())

	_, ok = s.Get(12)
	assert.False(t, ok)

	assert.Equal(t, []string{"$10=1", "$11=0.010", "$30=1000"}, s.Commands())
}

func TestSettings_MarshalYAML(t *testing.T) {
	s := CollectSettings(mustTokenize(t, "$30=1000\r\n$11=0.010\r\n$10=1\r\n"))

	data, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "status-report: 1\njunction-deviation: 0.010\nmax-spindle-speed: 1000\n", string(data))

	var back map[string]float64
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, map[string]float64{
		"status-report":      1,
		"junction-deviation": 0.01,
		"max-spindle-speed":  1000,
	}, back)
}

func TestSetting_Name(t *testing.T) {
	assert.Equal(t, "z-max-travel", Setting(132).Name())
	assert.Equal(t, TypeFloat, Setting(132).Type())
	assert.Equal(t, "$99", Setting(99).Name())
	assert.Equal(t, ValueType(0), Setting(99).Type())
}

func TestCodes(t *testing.T) {
	assert.Equal(t, "modal group violation", ErrorText(21))
	assert.Equal(t, "error 99", ErrorText(99))
	assert.Equal(t, "alarm 42", AlarmCode(42).String())
	assert.Equal(t, "Idle", StateIdle.String())
	assert.True(t, StateDoor.HasSubState())
	assert.False(t, StateRun.HasSubState())
}
