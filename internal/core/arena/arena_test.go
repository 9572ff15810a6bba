package arena

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type three struct{}

func (three) Limit() int { return 3 }

func TestAppendStopsAtLimit(t *testing.T) {
	var l List[int, three]
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Append(i))
	}
	err := l.Append(99)
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 0, l.Free())
	assert.Equal(t, []int{0, 1, 2}, l.Slice())
}

func TestRetainRemovesEveryMatch(t *testing.T) {
	var l List[string, three]
	require.NoError(t, l.Append("a"))
	require.NoError(t, l.Append("b"))
	require.NoError(t, l.Append("a"))

	dropped := l.Retain(func(s string) bool { return s != "a" })
	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"b"}, l.Slice())
	require.NoError(t, l.Append("c"))
	require.NoError(t, l.Append("d"))
	assert.Equal(t, 3, l.Len())
}

func TestFindReturnsMutablePointer(t *testing.T) {
	var l List[int, three]
	require.NoError(t, l.Append(1))
	require.NoError(t, l.Append(2))

	p, ok := l.Find(func(v int) bool { return v == 2 })
	require.True(t, ok)
	*p = 20
	assert.Equal(t, []int{1, 20}, l.Slice())

	_, ok = l.Find(func(v int) bool { return v == 7 })
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	var l List[int, three]
	require.NoError(t, l.Append(1))
	c := l.Clone()
	*c.At(0) = 5
	assert.Equal(t, 1, *l.At(0))
	assert.Equal(t, 5, *c.At(0))
}

func TestJSON(t *testing.T) {
	var l List[int, three]
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`[4,5]`), &l))
	assert.Equal(t, []int{4, 5}, l.Slice())

	err = json.Unmarshal([]byte(`[1,2,3,4]`), &l)
	require.ErrorIs(t, err, ErrFull)
}
