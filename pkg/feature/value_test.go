package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueCoercion(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		wantF   float64
		wantErr bool
		wantS   string
		wantB   bool
	}{
		{"null", Null(), 0, true, "", false},
		{"bool true", Bool(true), 1, false, "true", true},
		{"int", Int(42), 42, false, "42", true},
		{"zero int", Int(0), 0, false, "0", false},
		{"float", Float(2.5), 2.5, false, "2.5", true},
		{"numeric string", String(" 3.25 "), 3.25, false, " 3.25 ", true},
		{"word string", String("harbour"), 0, true, "harbour", true},
		{"empty string", String(""), 0, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.value.ToFloat()
			if tt.wantErr {
				var ce *CoercionError
				require.ErrorAs(t, err, &ce)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantF, f)
			}
			assert.Equal(t, tt.wantS, tt.value.ToString())
			assert.Equal(t, tt.wantB, tt.value.ToBool())
		})
	}
}

func TestValueToInt(t *testing.T) {
	i, err := Float(7.9).ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)

	i, err = String("12").ToInt()
	require.NoError(t, err)
	assert.Equal(t, int64(12), i)

	_, err = String("twelve").ToInt()
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(3).Equal(Float(3)))
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("3").Equal(Int(3)), "mixed string/number is never equal")
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Null().Equal(Int(0)))
	assert.True(t, Bool(true).Equal(Int(1)))
}

func TestValueCompare(t *testing.T) {
	c, err := Int(2).Compare(Float(2.5))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = String("b").Compare(String("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = String("b").Compare(Int(1))
	var ce *CoercionError
	assert.ErrorAs(t, err, &ce)
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, KindNull, ValueOf(nil).Kind())
	assert.Equal(t, KindInt, ValueOf(5).Kind())
	assert.Equal(t, KindFloat, ValueOf(5.0).Kind())
	assert.Equal(t, KindString, ValueOf("x").Kind())
	assert.Equal(t, KindBool, ValueOf(false).Kind())
	assert.Equal(t, KindString, ValueOf([]int{1}).Kind())
	assert.Equal(t, `"x"`, String("x").String())
}
