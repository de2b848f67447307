package fieldmeta

import (
	"fmt"
	"sort"
	"strconv"
)

// Option is one normalized enum entry.
type Option struct {
	Value  any    `json:"value" yaml:"value"`
	Text   string `json:"text" yaml:"text"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// NormalizeEnum converts either backend enum representation into a uniform
// option list:
//
//	[{value: 0, label: "open"}, ...]   array form
//	{"0": "open", "1": "closed"}       map form
//
// Map keys that look numeric are coerced to numbers. Malformed entries are
// defaulted, never rejected; nil input yields nil.
func NormalizeEnum(raw any) []Option {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return normalizeEnumSlice(v)
	case map[string]any:
		return normalizeEnumMap(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return normalizeEnumMap(m)
	default:
		return nil
	}
}

func normalizeEnumSlice(items []any) []Option {
	opts := make([]Option, 0, len(items))
	for _, it := range items {
		entry, ok := it.(map[string]any)
		if !ok || entry["value"] == nil {
			// bare scalar entry: value doubles as label
			opts = append(opts, Option{Value: it, Text: stringify(it)})
			continue
		}
		opt := Option{Value: entry["value"]}
		switch {
		case entry["label"] != nil:
			opt.Text = stringify(entry["label"])
		case entry["text"] != nil:
			opt.Text = stringify(entry["text"])
		default:
			opt.Text = stringify(entry["value"])
		}
		if s, ok := entry["status"].(string); ok {
			opt.Status = s
		}
		opts = append(opts, opt)
	}
	return opts
}

func normalizeEnumMap(m map[string]any) []Option {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// numeric keys sort numerically so output is deterministic
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := numericKey(keys[i])
		nj, jok := numericKey(keys[j])
		if iok && jok {
			return ni < nj
		}
		if iok != jok {
			return iok
		}
		return keys[i] < keys[j]
	})
	opts := make([]Option, 0, len(keys))
	for _, k := range keys {
		opt := Option{Text: stringify(m[k])}
		if n, ok := numericKey(k); ok {
			if n == float64(int64(n)) {
				opt.Value = int64(n)
			} else {
				opt.Value = n
			}
		} else {
			opt.Value = k
		}
		opts = append(opts, opt)
	}
	return opts
}

func numericKey(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
