package content

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	dateType = reflect.TypeOf(Date{})
	timeType = reflect.TypeOf(time.Time{})
)

// timeLayouts 按顺序尝试，无时区的写法按 UTC 处理。
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	dateLayout,
}

// decode 将 frontmatter 中的通用结构解码为目标结构体，支持日期字符串与 YAML 时间戳。
func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timeDecodeHook(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func timeDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		switch to {
		case timeType:
			return parseTime(data)
		case dateType:
			t, err := parseTime(data)
			if err != nil {
				return nil, err
			}
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		default:
			return data, nil
		}
	}
}

func parseTime(data interface{}) (time.Time, error) {
	switch v := data.(type) {
	case time.Time:
		return v, nil
	case Date:
		return v.Time, nil
	case string:
		value := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("无法解析日期: %q", v)
	default:
		return time.Time{}, fmt.Errorf("不支持的日期类型: %T", data)
	}
}

// requireKeys 校验条目中必填字段存在且非空。
func requireKeys(item map[string]any, keys ...string) error {
	for _, key := range keys {
		value, ok := item[key]
		if !ok || value == nil {
			return fmt.Errorf("缺少字段 %s", key)
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return fmt.Errorf("字段 %s 不能为空", key)
		}
	}
	return nil
}
