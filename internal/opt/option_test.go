package opt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOption_SomeAndNone(t *testing.T) {
	s := Some(42)
	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, s.OrElse(7))

	n := None[int]()
	assert.True(t, n.IsNone())
	assert.Equal(t, 7, n.OrElse(7))
}

func TestOption_JSONNull(t *testing.T) {
	type wrapper struct {
		Temp Option[float64] `json:"temp"`
	}

	data, err := json.Marshal(wrapper{Temp: None[float64]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"temp":null}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"temp":81.5}`), &w))
	assert.Equal(t, 81.5, w.Temp.OrElse(0))

	require.NoError(t, json.Unmarshal([]byte(`{"temp":null}`), &w))
	assert.True(t, w.Temp.IsNone())
}
