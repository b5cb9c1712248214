// Package subject 是服务端、Go 客户端与命令行共用的学科分类模块。
// 分类规则只在这里维护一份，升级时同步修改 Version。
package subject

import "strings"

// Version 标识当前关键词表与分派策略的版本。
const Version = "1.0.0"

// Subject 是消息所属的学科标签，取值为封闭集合。
type Subject string

const (
	Math       Subject = "Math"
	Science    Subject = "Science"
	History    Subject = "History"
	Language   Subject = "Language"
	Technology Subject = "Technology"
	General    Subject = "General"
)

// All 按固定顺序返回全部学科，General 位于最后。
func All() []Subject {
	return []Subject{Math, Science, History, Language, Technology, General}
}

// Values 返回全部学科的字符串形式，供数据库查询使用。
func Values() []string {
	all := All()
	out := make([]string, 0, len(all))
	for _, s := range all {
		out = append(out, string(s))
	}
	return out
}

// Parse 以大小写不敏感的方式把字符串解析为学科。
func Parse(s string) (Subject, bool) {
	s = strings.TrimSpace(s)
	for _, sub := range All() {
		if strings.EqualFold(s, string(sub)) {
			return sub, true
		}
	}
	return "", false
}

// IsValid 判断字符串是否恰好是集合中的某个学科（大小写敏感）。
func IsValid(s string) bool {
	for _, sub := range All() {
		if s == string(sub) {
			return true
		}
	}
	return false
}

// Normalize 将存储中的任意取值归一化为合法学科。
// 空值、缺失值以及集合外的取值都归入 General。
func Normalize(s string) Subject {
	if sub, ok := Parse(s); ok {
		return sub
	}
	return General
}

// IsGeneral 判断给定名称是否指向 General 桶。
func IsGeneral(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), string(General))
}

func (s Subject) String() string {
	return string(s)
}
