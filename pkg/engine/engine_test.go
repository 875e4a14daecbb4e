package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := eng.Evaluate(src)
		require.NoError(t, err)
		require.Empty(t, evalErrs)
		require.NotNil(t, s)
		assert.Zero(t, s.CrystalCount())
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// Plain Lisp with no DSL calls yields an empty scene.
	s, evalErrs, err := eng.Evaluate("(+ 1 2)")
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, s)
	assert.Zero(t, s.CrystalCount())
	assert.Empty(t, s.Placements)
}

func TestEvaluateMultipleExpressions(t *testing.T) {
	eng := NewEngine()

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	s, evalErrs, err := eng.Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.NotNil(t, s)
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	s, evalErrs, err := eng.Evaluate("(+ 1 2")
	require.NoError(t, err, "parse errors are not fatal")
	assert.Nil(t, s)
	require.NotEmpty(t, evalErrs)
	assert.NotEmpty(t, evalErrs[0].Message)
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NotEmpty(t, evalErrs)
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := NewEngine()

	// Put the error on line 2.
	_, evalErrs, err := eng.Evaluate("(+ 1 2)\n(+ 3")
	require.NoError(t, err)
	require.NotEmpty(t, evalErrs)

	// Line info depends on the zygomys error format; the message must
	// be populated either way.
	e := evalErrs[0]
	assert.NotEmpty(t, e.Message)
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	assert.Contains(t, e.Error(), "line 5")
	assert.Contains(t, e.Error(), "something went wrong")

	e2 := EvalError{Message: "no location"}
	assert.NotContains(t, e2.Error(), "line")
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := `(crystal "cube" :group "m-3m" (face (vec3 1 0 0) 1))`

	// Multiple evaluations of the same source should produce equivalent results.
	first, _, err := eng.Evaluate(source)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		s, evalErrs, err := eng.Evaluate(source)
		require.NoError(t, err, "iteration %d", i)
		require.Empty(t, evalErrs, "iteration %d", i)
		assert.Equal(t, first.Crystals, s.Crystals, "iteration %d", i)
		assert.Equal(t, first.Placements, s.Placements, "iteration %d", i)
		assert.Greater(t, s.Version, first.Version)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	eng := NewEngine()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Superseded results surface as errors; neither outcome may panic.
			_, _, _ = eng.Evaluate(`(crystal "c" :group "4/mmm" (face (vec3 1 0 0) 1) (face (vec3 0 0 1) 2))`)
		}()
	}
	wg.Wait()

	s, evalErrs, err := eng.Evaluate(`(crystal "c" (face (vec3 1 0 0) 1))`)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, 1, s.CrystalCount())
}

func TestEvaluateResultWarnings(t *testing.T) {
	eng := NewEngine()

	res, err := eng.EvaluateResult(`
(crystal "a" :group "m-3m" (face (vec3 1 0 0) 1) (face (vec3 1 1 1) 0))
(crystal "b" :group "m-3m" (face (vec3 1 0 0) 1))
(place "a")
`)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Scene)

	got := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		got[i] = w.String()
	}
	assert.ElementsMatch(t, []string{
		"a: seed 1 has a zero distance and will be dropped",
		"b: crystal is never placed",
	}, got)
}

func TestEvaluateTimeout(t *testing.T) {
	// zygomys has no loop we can rely on to hang, so drive await directly
	// with a channel that never sends.
	eng := &Engine{generation: 1, timeout: 20 * time.Millisecond}
	ch := make(chan evalResult)

	done := make(chan error, 1)
	go func() {
		_, _, err := eng.await(ch, 1)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Contains(t, err.Error(), "20ms")
	case <-time.After(2 * time.Second):
		t.Fatal("await did not time out")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := &Engine{generation: 3}
	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := eng.await(ch, 1)
	var sup *SupersededError
	require.ErrorAs(t, err, &sup)
	assert.Equal(t, uint64(1), sup.Generation)
	assert.Equal(t, uint64(3), sup.By)
	assert.EqualError(t, err, "evaluation 1 superseded by 3")
}

func TestEvaluateCurrentGeneration(t *testing.T) {
	eng := &Engine{generation: 2}
	ch := make(chan evalResult, 1)
	ch <- evalResult{errors: []EvalError{{Line: 4, Message: "boom"}}}

	s, evalErrs, err := eng.await(ch, 2)
	require.NoError(t, err)
	assert.Nil(t, s)
	require.Len(t, evalErrs, 1)
	assert.Equal(t, "line 4: boom", evalErrs[0].Error())
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad face",
			wantLine: 3,
			wantMsg:  "bad face",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantLine, errs[0].Line)
			assert.Contains(t, errs[0].Message, tt.wantMsg)
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
