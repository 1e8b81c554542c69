package grbl

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Setting is the numeric key of a `$<n>=<v>` setting.
type Setting uint32

// ValueType is the representation of a setting value.
type ValueType byte

const (
	TypeByte ValueType = iota + 1
	TypeUint32
	TypeFloat
)

type settingInfo struct {
	name string
	typ  ValueType
}

var settings = map[Setting]settingInfo{
	0:   {"step-pulse-usec", TypeUint32},
	1:   {"step-idle-delay-msec", TypeUint32},
	2:   {"step-port-invert", TypeByte},
	3:   {"direction-port-invert", TypeByte},
	4:   {"step-enable-invert", TypeByte},
	5:   {"limit-pins-invert", TypeByte},
	6:   {"probe-pin-invert", TypeByte},
	10:  {"status-report", TypeByte},
	11:  {"junction-deviation", TypeFloat},
	12:  {"arc-tolerance", TypeFloat},
	13:  {"report-inches", TypeByte},
	20:  {"soft-limits", TypeByte},
	21:  {"hard-limits", TypeByte},
	22:  {"homing-cycle", TypeByte},
	23:  {"homing-dir-invert", TypeByte},
	24:  {"homing-feed", TypeFloat},
	25:  {"homing-seek", TypeFloat},
	26:  {"homing-debounce-msec", TypeUint32},
	27:  {"homing-pull-off", TypeFloat},
	30:  {"max-spindle-speed", TypeUint32},
	31:  {"min-spindle-speed", TypeUint32},
	32:  {"laser-mode", TypeByte},
	100: {"x-steps-per-mm", TypeFloat},
	101: {"y-steps-per-mm", TypeFloat},
	102: {"z-steps-per-mm", TypeFloat},
	110: {"x-max-rate", TypeFloat},
	111: {"y-max-rate", TypeFloat},
	112: {"z-max-rate", TypeFloat},
	120: {"x-acceleration", TypeFloat},
	121: {"y-acceleration", TypeFloat},
	122: {"z-acceleration", TypeFloat},
	130: {"x-max-travel", TypeFloat},
	131: {"y-max-travel", TypeFloat},
	132: {"z-max-travel", TypeFloat},
}

// Type returns the representation of s, or 0 for an unknown key.
func (s Setting) Type() ValueType { return settings[s].typ }

// Name returns a short name for s.
func (s Setting) Name() string {
	if info, ok := settings[s]; ok {
		return info.name
	}
	return "$" + strconv.FormatUint(uint64(s), 10)
}

func (s Setting) String() string { return s.Name() }

// String formats the value the way the controller accepts it.
func (v SettingValue) String() string {
	switch v.Type {
	case TypeByte:
		return strconv.Itoa(int(v.Byte))
	case TypeUint32:
		return strconv.FormatUint(uint64(v.Uint), 10)
	}
	return strconv.FormatFloat(v.Float, 'f', 3, 64)
}

// Settings is a set of setting values read from a `$$` listing.
type Settings struct {
	values map[Setting]SettingValue
}

// CollectSettings gathers every setting value in tokens. Later values
// replace earlier ones for the same key.
func CollectSettings(tokens []Token) Settings {
	s := Settings{values: make(map[Setting]SettingValue)}
	for _, tok := range tokens {
		if v, ok := tok.(SettingValue); ok {
			s.values[v.Key] = v
		}
	}
	return s
}

func (s Settings) Len() int { return len(s.values) }

func (s Settings) Get(k Setting) (SettingValue, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Keys returns the collected keys in ascending order.
func (s Settings) Keys() []Setting {
	keys := make([]Setting, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Commands returns the `$<n>=<v>` lines that restore s.
func (s Settings) Commands() []string {
	res := make([]string, 0, len(s.values))
	for _, k := range s.Keys() {
		res = append(res, "$"+strconv.FormatUint(uint64(k), 10)+"="+s.values[k].String())
	}
	return res
}

// MarshalYAML writes settings as a mapping of setting names, in key order.
func (s Settings) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range s.Keys() {
		v := s.values[k]
		tag := "!!int"
		if v.Type == TypeFloat {
			tag = "!!float"
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k.Name()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()},
		)
	}
	return n, nil
}
