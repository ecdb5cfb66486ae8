package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// StatisticsSnapshot 某一时刻的互动数据
type StatisticsSnapshot struct {
	Date        int64 `json:"date"`
	Impressions int64 `json:"impressions"`
	Comments    int64 `json:"comments"`
	Likes       int64 `json:"likes"`
}

// Post 已发布内容的记录，统计数据只追加不修改
type Post struct {
	ID          string               `json:"id"`
	Text        string               `json:"text,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
	Date        int64                `json:"date"`
	Statistics  []StatisticsSnapshot `json:"statisticsArray"`
}

// LastStatistics 最近一次统计快照
func (p *Post) LastStatistics() (StatisticsSnapshot, bool) {
	if len(p.Statistics) == 0 {
		return StatisticsSnapshot{}, false
	}
	return p.Statistics[len(p.Statistics)-1], true
}

// FollowerSnapshot 某一时刻的粉丝/订阅数
type FollowerSnapshot struct {
	Date  int64 `json:"date"`
	Count int64 `json:"count"`
}

// UnmarshalJSON 兼容历史数据中以字符串保存的数字（订阅数接口返回字符串）
func (f *FollowerSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  json.RawMessage `json:"date"`
		Count json.RawMessage `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := parseLooseInt(raw.Date)
	if err != nil {
		return fmt.Errorf("follower snapshot date: %w", err)
	}
	count, err := parseLooseInt(raw.Count)
	if err != nil {
		return fmt.Errorf("follower snapshot count: %w", err)
	}
	f.Date = date
	f.Count = count
	return nil
}

// PostList posts 列的序列化类型
type PostList []Post

func (l PostList) Value() (driver.Value, error) {
	return encodeJSONColumn(l)
}

func (l *PostList) Scan(src any) error {
	var out PostList
	if err := decodeJSONColumn(src, &out); err != nil {
		return fmt.Errorf("scan posts column: %w", err)
	}
	*l = out
	return nil
}

// FollowerList profile_followers 列的序列化类型
type FollowerList []FollowerSnapshot

func (l FollowerList) Value() (driver.Value, error) {
	return encodeJSONColumn(l)
}

func (l *FollowerList) Scan(src any) error {
	var out FollowerList
	if err := decodeJSONColumn(src, &out); err != nil {
		return fmt.Errorf("scan profile_followers column: %w", err)
	}
	*l = out
	return nil
}

// Last 最近一次粉丝快照
func (l FollowerList) Last() (FollowerSnapshot, bool) {
	if len(l) == 0 {
		return FollowerSnapshot{}, false
	}
	return l[len(l)-1], true
}

func encodeJSONColumn(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func decodeJSONColumn(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func parseLooseInt(raw json.RawMessage) (int64, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		if s == "" {
			return 0, nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(f)), nil
}
