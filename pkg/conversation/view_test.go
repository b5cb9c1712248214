package conversation

import (
	"testing"
	"time"

	"brainbytes-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func msg(id, text, sub string, isUser bool, offset int) model.Message {
	return model.Message{ID: id, Text: text, Subject: sub, IsUser: isUser, CreatedAt: base.Add(time.Duration(offset) * time.Second)}
}

func TestLoad(t *testing.T) {
	v := Load([]model.Message{
		msg("3", "later", "Math", true, 3),
		msg("1", "first", "Math", true, 1),
		msg("2", "drift", "Unknown", true, 2),
		msg("4", "empty", "", false, 4),
		msg("5", "lower", "science", true, 5),
	})

	math := v.Bucket("Math")
	require.Len(t, math, 2)
	assert.Equal(t, "1", math[0].ID)
	assert.Equal(t, "3", math[1].ID)

	general := v.Bucket("General")
	require.Len(t, general, 2)
	assert.Equal(t, "General", general[0].Subject)

	science := v.Bucket("Science")
	require.Len(t, science, 1)
	assert.Equal(t, "Science", science[0].Subject)
}

func TestAskSuccessFlow(t *testing.T) {
	v := Load(nil)

	assert.Equal(t, "Science", v.Target("tell me about atoms"))

	v1, temp := v.AddOptimistic("tell me about atoms", base)
	assert.True(t, temp.IsUser)
	assert.Equal(t, "Science", temp.Subject)
	require.Len(t, v1.Bucket("Science"), 1)
	assert.Empty(t, v.Bucket("Science"), "original view is untouched")

	res := model.PostMessageResult{
		UserMessage: msg("u1", "tell me about atoms", "Science", true, 1),
		AIMessage:   msg("a1", "Atoms are tiny.", "Science", false, 2),
		Category:    "open-ended",
	}
	v2 := v1.Confirm(temp.ID, "Science", res)

	bucket := v2.Bucket("Science")
	require.Len(t, bucket, 2)
	assert.Equal(t, "u1", bucket[0].ID)
	assert.Equal(t, "a1", bucket[1].ID)
	assert.Equal(t, "Science", v2.Filter(), "filter switches to the target when none was set")
	assert.Equal(t, "", v1.Filter())
}

func TestConfirmKeepsExistingFilter(t *testing.T) {
	v := Load(nil).WithFilter("History")
	assert.Equal(t, "History", v.Target("solve this equation"))

	v1, temp := v.AddOptimistic("solve this equation", base)
	v2 := v1.Confirm(temp.ID, "History", model.PostMessageResult{
		UserMessage: msg("u1", "solve this equation", "History", true, 1),
		AIMessage:   msg("a1", "ok", "History", false, 2),
	})
	assert.Equal(t, "History", v2.Filter())
	assert.Len(t, v2.Bucket("History"), 2)
	assert.Empty(t, v2.Bucket("Math"))
}

func TestAskFailureFlow(t *testing.T) {
	t.Run("error goes to General without a filter", func(t *testing.T) {
		v1, temp := Load(nil).AddOptimistic("hello", base)
		v2 := v1.AppendError(base.Add(time.Second))

		general := v2.Bucket("General")
		require.Len(t, general, 2)
		assert.Equal(t, temp.ID, general[0].ID)
		assert.Equal(t, ErrorReply, general[1].Text)
		assert.False(t, general[1].IsUser)
	})

	t.Run("error goes to the filter bucket", func(t *testing.T) {
		v := Load(nil).WithFilter("Math").AppendError(base)
		require.Len(t, v.Bucket("Math"), 1)
		assert.Empty(t, v.Bucket("General"))
	})

	t.Run("discard removes the temp message", func(t *testing.T) {
		v1, temp := Load(nil).AddOptimistic("tell me about atoms", base)
		v2 := v1.Discard(temp.ID)
		assert.Empty(t, v2.Bucket("Science"))
	})
}

func TestClearSubject(t *testing.T) {
	v := Load([]model.Message{
		msg("1", "a", "Math", true, 1),
		msg("2", "b", "Unknown", true, 2),
		msg("3", "c", "Science", true, 3),
	})
	v2 := v.ClearSubject("general")
	assert.Empty(t, v2.Bucket("General"))
	assert.Len(t, v2.Bucket("Math"), 1)
	assert.Len(t, v.Bucket("General"), 1)
}

func TestMessagesAndCounts(t *testing.T) {
	v := Load([]model.Message{
		msg("g", "hi", "General", true, 0),
		msg("m1", "q", "Math", true, 1),
		msg("m2", "a", "Math", false, 2),
		msg("t1", "q", "Technology", true, 3),
	})

	all := v.Messages()
	require.Len(t, all, 4)
	assert.Equal(t, "m1", all[0].ID)
	assert.Equal(t, "g", all[3].ID)

	assert.Len(t, v.WithFilter("Math").Messages(), 2)
	assert.Equal(t, map[string]int{"General": 1, "Math": 2, "Technology": 1}, v.Counts())

	counts := v.UserCounts()
	require.Len(t, counts, 6)
	assert.Equal(t, model.SubjectCount{Subject: "Math", Count: 1}, counts[0])
	assert.Equal(t, model.SubjectCount{Subject: "General", Count: 1}, counts[5])
	assert.Equal(t, int64(0), counts[1].Count)
}
