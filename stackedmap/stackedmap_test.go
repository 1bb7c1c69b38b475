// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yieldchef/chef/stackedmap"
)

type getResult struct {
	value string
	found bool
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})
	get := func(key string) getResult {
		v, found, err := sm.Get(key)
		assert.NoError(err)
		return getResult{v, found}
	}

	tests := []struct {
		f        func()
		depth    int
		putKey   string
		putValue string
		getKey   string
		want     getResult
	}{
		{func() {}, 1, "", "", "foo", getResult{"bar", true}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", getResult{"baz", true}},
		{func() {}, 2, "foo", "baz1", "foo", getResult{"baz1", true}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", getResult{"qux", true}},
		{func() { sm.Pop() }, 2, "", "", "foo", getResult{"baz1", true}},
		{func() { sm.Pop() }, 1, "", "", "foo", getResult{"bar", true}},
		{func() {}, 1, "", "", "missing", getResult{"", false}},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.want, get(test.getKey))
		}
	}

	sm.Push()
	sm.Push()
	sm.PopTo(0)
	assert.Equal(0, sm.Depth())
}

func TestStackedMapJournal(t *testing.T) {
	sm := stackedmap.New(func(key int) (int, bool, error) {
		return 0, false, nil
	})

	sm.Put(1, 10)
	rev := sm.Push()
	sm.Put(2, 20)
	sm.Put(1, 11)
	sm.Push()
	sm.Put(3, 30)
	sm.PopTo(rev + 1)

	var keys, values []int
	sm.Journal(func(k, v int) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []int{1, 2, 1}, keys)
	assert.Equal(t, []int{10, 20, 11}, values)

	v, found, _ := sm.Get(3)
	assert.False(t, found)
	assert.Equal(t, 0, v)

	var n int
	sm.Journal(func(int, int) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}
