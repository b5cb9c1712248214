package subject

import "strings"

// rule 是某个学科及其关键词列表。
type rule struct {
	subject  Subject
	keywords []string
}

// rules 的顺序即优先级：Math → Science → History → Language → Technology。
var rules = []rule{
	{Math, []string{"math", "equation", "calculate", "algebra", "geometry", "number"}},
	{Science, []string{"science", "biology", "chemistry", "physics", "molecule", "atom"}},
	{History, []string{"history", "war", "century", "ancient", "civilization"}},
	{Language, []string{"language", "grammar", "vocabulary", "word", "sentence", "speak"}},
	{Technology, []string{"technology", "computer", "software", "program", "code", "internet"}},
}

// Classify 根据关键词把文本映射为唯一的学科。
// 匹配为大小写不敏感的子串包含，按优先级短路，无命中时返回 General。
func Classify(text string) Subject {
	if text == "" {
		return General
	}
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.subject
			}
		}
	}
	return General
}

// Keywords 返回某个学科的关键词副本，General 没有关键词。
func Keywords(s Subject) []string {
	for _, r := range rules {
		if r.subject == s {
			out := make([]string, len(r.keywords))
			copy(out, r.keywords)
			return out
		}
	}
	return nil
}
