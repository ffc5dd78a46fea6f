package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON 通用 JSON 对象列类型
type JSON map[string]interface{}

// Value 用于数据库写入
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 用于数据库读取
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type: %T", value)
	}
	if len(data) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(data, j)
}

// ValidateRawJSON 校验原始字符串是合法 JSON（不校验 schema）
func ValidateRawJSON(raw string) error {
	if raw == "" {
		return errors.New("empty payload")
	}
	if !json.Valid([]byte(raw)) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}
