package subject

import "strings"

// Partition 决定一条消息归入哪个学科桶。
// 优先级：调用方显式指定的学科（原样使用，不再分类）> 当前激活的筛选学科 > 关键词分类结果。
// 客户端与服务端必须使用同一个函数，保证一次请求产生的两条记录学科一致。
func Partition(text, explicit, filter string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if s := strings.TrimSpace(filter); s != "" {
		return s
	}
	return string(Classify(text))
}
