package expr

import (
	"errors"
	"testing"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluate(t *testing.T) {
	e, err := Parse("[class] = 'harbour' and @zoom >= 10")
	require.NoError(t, err)

	f := feature.New(1, orb.Point{0, 0}, map[string]feature.Value{"class": feature.String("harbour")})

	ok, err := e.Bool(Context{Feature: f, Vars: Vars{"zoom": feature.Int(12)}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Bool(Context{Feature: f, Vars: Vars{"zoom": feature.Int(4)}})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.Bool(Context{Feature: f})
	var ee *EvalError
	assert.True(t, errors.As(err, &ee), "missing variable is an evaluation error")

	assert.Equal(t, []string{"class"}, e.Attributes())
	assert.Equal(t, []string{"zoom"}, e.Variables())
	assert.False(t, e.IsConstant())
	assert.Equal(t, "[class] = 'harbour' and @zoom >= 10", e.Source())
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("[a] >")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 5, se.Pos)

	assert.Panics(t, func() { MustParse("(") })
}

func TestTextRoundTrip(t *testing.T) {
	var e Expr
	require.NoError(t, e.UnmarshalText([]byte("1 + 2")))
	text, err := e.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", string(text))
	assert.True(t, e.IsConstant())

	v, err := e.Evaluate(Context{})
	require.NoError(t, err)
	assert.True(t, v.Equal(feature.Int(3)))
}
