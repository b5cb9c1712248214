// Package conversation 维护客户端侧按学科分组的对话视图。
// View 是不可变值，每个状态转换都返回新的 View，调用方持有的旧值不受影响。
package conversation

import (
	"fmt"
	"sort"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/subject"
)

// ErrorReply 是请求失败时在本地追加的提示文本。
const ErrorReply = "Sorry, I couldn't process your request. Please try again later."

// View 是按学科分组的消息视图以及当前激活的筛选学科。
type View struct {
	buckets map[subject.Subject][]model.Message
	filter  string
	seq     int
}

// Load 把服务端返回的消息按归一化学科分组，组内按创建时间升序排列。
func Load(msgs []model.Message) View {
	v := View{buckets: make(map[subject.Subject][]model.Message)}
	for _, m := range msgs {
		m = m.Normalized()
		sub := subject.Subject(m.Subject)
		v.buckets[sub] = append(v.buckets[sub], m)
	}
	for sub := range v.buckets {
		sortByTime(v.buckets[sub])
	}
	return v
}

func sortByTime(msgs []model.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func (v View) clone() View {
	out := View{
		buckets: make(map[subject.Subject][]model.Message, len(v.buckets)),
		filter:  v.filter,
		seq:     v.seq,
	}
	for sub, msgs := range v.buckets {
		out.buckets[sub] = append([]model.Message(nil), msgs...)
	}
	return out
}

// Filter 返回当前激活的筛选学科，空字符串表示查看全部。
func (v View) Filter() string {
	return v.filter
}

// WithFilter 切换筛选学科，传入空字符串表示取消筛选。
func (v View) WithFilter(filter string) View {
	out := v.clone()
	out.filter = filter
	return out
}

// Target 返回一条新提问将被归入的学科，与服务端的分派规则一致。
func (v View) Target(text string) string {
	return subject.Partition(text, "", v.filter)
}

// AddOptimistic 在目标学科桶中插入一条临时的用户消息，返回新视图和这条临时消息。
func (v View) AddOptimistic(text string, now time.Time) (View, model.Message) {
	out := v.clone()
	out.seq++
	target := v.Target(text)
	temp := model.Message{
		ID:        fmt.Sprintf("temp-%d", out.seq),
		Text:      text,
		IsUser:    true,
		Subject:   target,
		CreatedAt: now,
	}
	sub := subject.Normalize(target)
	out.buckets[sub] = append(out.buckets[sub], temp)
	return out, temp
}

// Confirm 用服务端返回的一对消息替换临时消息。
// 如果此前没有筛选学科，视图会自动切换到这次提问所在的学科。
func (v View) Confirm(tempID, target string, res model.PostMessageResult) View {
	out := v.clone()
	out.remove(tempID)
	user := res.UserMessage.Normalized()
	ai := res.AIMessage.Normalized()
	sub := subject.Normalize(user.Subject)
	out.buckets[sub] = append(out.buckets[sub], user, ai)
	if out.filter == "" {
		out.filter = subject.Normalize(target).String()
	}
	return out
}

// Discard 移除一条临时消息，用于请求失败后的回滚。
func (v View) Discard(tempID string) View {
	out := v.clone()
	out.remove(tempID)
	return out
}

func (v *View) remove(id string) {
	for sub, msgs := range v.buckets {
		for i, m := range msgs {
			if m.ID == id {
				v.buckets[sub] = append(msgs[:i:i], msgs[i+1:]...)
				return
			}
		}
	}
}

// AppendError 在当前筛选学科（未筛选时为 General）中追加一条本地错误回复。
func (v View) AppendError(now time.Time) View {
	out := v.clone()
	out.seq++
	sub := subject.General
	if out.filter != "" {
		sub = subject.Normalize(out.filter)
	}
	out.buckets[sub] = append(out.buckets[sub], model.Message{
		ID:        fmt.Sprintf("error-%d", out.seq),
		Text:      ErrorReply,
		IsUser:    false,
		Subject:   sub.String(),
		CreatedAt: now,
	})
	return out
}

// ClearSubject 清空某个学科桶，对应服务端删除成功后的本地状态。
func (v View) ClearSubject(name string) View {
	out := v.clone()
	delete(out.buckets, subject.Normalize(name))
	return out
}

// Bucket 返回某个学科下的消息副本。
func (v View) Bucket(name string) []model.Message {
	return append([]model.Message(nil), v.buckets[subject.Normalize(name)]...)
}

// Messages 返回当前可见的消息：有筛选时只返回该学科，否则按学科顺序返回全部。
func (v View) Messages() []model.Message {
	if v.filter != "" {
		return v.Bucket(v.filter)
	}
	var out []model.Message
	for _, sub := range subject.All() {
		out = append(out, v.buckets[sub]...)
	}
	return out
}

// Counts 返回各学科的消息总数。
func (v View) Counts() map[string]int {
	out := make(map[string]int, len(v.buckets))
	for sub, msgs := range v.buckets {
		out[sub.String()] = len(msgs)
	}
	return out
}

// UserCounts 返回各学科下用户提问的数量，按学科固定顺序排列。
func (v View) UserCounts() []model.SubjectCount {
	out := make([]model.SubjectCount, 0, len(subject.All()))
	for _, sub := range subject.All() {
		var n int64
		for _, m := range v.buckets[sub] {
			if m.IsUser {
				n++
			}
		}
		out = append(out, model.SubjectCount{Subject: sub.String(), Count: n})
	}
	return out
}
