package timeline

import (
	"testing"

	"github.com/jsphweid/yargchart/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(ticks int64) model.DualTime {
	return model.DualTime{Ticks: ticks, Seconds: float64(ticks) / 100}
}

func TestAppendKeepsOrder(t *testing.T) {
	tl := New[int](2)
	tl.Append(at(0), 1)
	tl.Append(at(10), 2)
	tl.Append(at(20), 3)

	assert := assert.New(t)
	assert.Equal(3, tl.Len())
	assert.GreaterOrEqual(tl.Cap(), 3)
	assert.Equal(int64(20), tl.Last().Key.Ticks)
	assert.Equal(2, tl.At(1).Value)
}

func TestAppendRejectsNonIncreasingKey(t *testing.T) {
	tl := New[int](4)
	tl.Append(at(10), 1)
	assert.Panics(t, func() { tl.Append(at(10), 2) })
	assert.Panics(t, func() { tl.Append(at(5), 2) })
}

func TestGetOrAppendLastCoalesces(t *testing.T) {
	tl := New[uint8](4)
	*tl.GetOrAppendLast(at(96)) |= 1 << 1
	*tl.GetOrAppendLast(at(96)) |= 1 << 3

	assert := assert.New(t)
	require.Equal(t, 1, tl.Len())
	assert.Equal(uint8(1<<1|1<<3), tl.Last().Value)

	*tl.GetOrAppendLast(at(100)) |= 1
	assert.Equal(2, tl.Len())
}

func TestLastKeyChecks(t *testing.T) {
	tl := New[string](4)
	_, ok := tl.TryGetLastValue(0)
	assert.False(t, ok)
	assert.False(t, tl.ValidateLastKey(0))

	tl.Append(at(5), "a")
	v, ok := tl.TryGetLastValue(5)
	require.True(t, ok)
	assert.Equal(t, "a", *v)
	assert.True(t, tl.ValidateLastKey(5))
	assert.False(t, tl.ValidateLastKey(6))
}

func TestTraverseBackwardsUntil(t *testing.T) {
	tl := New[int](8)
	for _, ticks := range []int64{0, 10, 20, 30} {
		tl.Append(at(ticks), int(ticks))
	}

	cases := []struct {
		ticks    int64
		expected int
	}{
		{-1, -1},
		{0, 0},
		{15, 1},
		{30, 3},
		{1000, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, tl.TraverseBackwardsUntil(c.ticks), "ticks %d", c.ticks)
	}
}

func TestTryFindOrInsert(t *testing.T) {
	tl := New[int](2)
	*tl.TryFindOrInsert(at(20)) = 20
	*tl.TryFindOrInsert(at(0)) = 0
	*tl.TryFindOrInsert(at(10)) = 10
	*tl.TryFindOrInsert(at(10)) += 1

	assert := assert.New(t)
	require.Equal(t, 3, tl.Len())
	for i, expected := range []int64{0, 10, 20} {
		assert.Equal(expected, tl.At(i).Key.Ticks)
	}
	assert.Equal(11, tl.At(1).Value)

	idx, ok := tl.Find(15)
	assert.False(ok)
	assert.Equal(2, idx)
}

func TestInsertAtRejectsDisorder(t *testing.T) {
	tl := New[int](4)
	tl.Append(at(0), 0)
	tl.Append(at(10), 0)
	assert.Panics(t, func() { tl.InsertAt(1, at(10)) })
	assert.Panics(t, func() { tl.InsertAt(5, at(50)) })
	assert.NotPanics(t, func() { tl.InsertAt(1, at(5)) })
}

func TestPop(t *testing.T) {
	tl := New[int](4)
	assert.Panics(t, tl.Pop)
	tl.Append(at(1), 1)
	tl.Pop()
	assert.True(t, tl.IsEmpty())
}

func TestTrimExcess(t *testing.T) {
	tl := New[int](DefaultNoteCapacity)
	tl.Append(at(1), 1)
	tl.TrimExcess()
	assert.Equal(t, 1, tl.Cap())

	small := New[int](8)
	small.Append(at(1), 1)
	small.TrimExcess()
	assert.Equal(t, 8, small.Cap(), "tiny lists are left alone")

	full := New[int](20)
	for i := int64(0); i < 19; i++ {
		full.Append(at(i), 0)
	}
	full.TrimExcess()
	assert.Equal(t, 20, full.Cap(), "nearly full lists are left alone")
}

func TestCopyFromAndMove(t *testing.T) {
	src := New[int](4)
	src.Append(at(1), 1)
	src.Append(at(2), 2)

	dst := New[int](0)
	dst.CopyFrom(src)
	assert.Equal(t, src.Entries(), dst.Entries())

	moved := src.Move()
	assert.Equal(t, 2, moved.Len())
	assert.True(t, src.IsDisposed())
	assert.Equal(t, 0, src.Len())
	assert.NotPanics(t, src.Dispose)
	assert.Panics(t, func() { src.Append(at(3), 3) })
}

func TestMutationAfterDisposePanics(t *testing.T) {
	for name, mutate := range map[string]func(tl *Timeline[int]){
		"append":         func(tl *Timeline[int]) { tl.Append(at(5), 5) },
		"coalesce":       func(tl *Timeline[int]) { tl.GetOrAppendLast(at(1)) },
		"find or insert": func(tl *Timeline[int]) { tl.TryFindOrInsert(at(1)) },
		"insert":         func(tl *Timeline[int]) { tl.InsertAt(0, at(0)) },
		"pop":            func(tl *Timeline[int]) { tl.Pop() },
		"clear":          func(tl *Timeline[int]) { tl.Clear() },
		"trim":           func(tl *Timeline[int]) { tl.TrimExcess() },
		"copy":           func(tl *Timeline[int]) { tl.CopyFrom(New[int](0)) },
	} {
		t.Run(name, func(t *testing.T) {
			disposed := New[int](4)
			disposed.Append(at(1), 1)
			disposed.Dispose()
			assert.Panics(t, func() { mutate(disposed) })

			movedFrom := New[int](4)
			movedFrom.Append(at(1), 1)
			movedFrom.Move()
			assert.Panics(t, func() { mutate(movedFrom) })
		})
	}
}

func TestDisposeOnce(t *testing.T) {
	tl := New[int](4)
	tl.Append(at(1), 1)
	tl.Dispose()
	assert.True(t, tl.IsDisposed())
	assert.NotPanics(t, tl.Dispose)

	var nilList *Timeline[int]
	assert.NotPanics(t, nilList.Dispose)
}
