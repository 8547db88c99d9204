package bench

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPct(t *testing.T) {
	var vs []time.Duration
	for i := 1; i <= 100; i++ {
		vs = append(vs, time.Duration(i)*time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, Pct(vs, 0.50))
	assert.Equal(t, 99*time.Millisecond, Pct(vs, 0.99))
	assert.Equal(t, 100*time.Millisecond, Pct(vs, 1))
	assert.Equal(t, time.Duration(0), Pct(nil, 0.5))
	assert.Equal(t, time.Millisecond, vs[0], "Pct must not reorder its input")
	assert.Equal(t, 50500*time.Microsecond, Avg(vs))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("BENCH_N", "42")
	assert.Equal(t, 42, EnvInt("BENCH_N", 7))
	t.Setenv("BENCH_N", "-1")
	assert.Equal(t, 7, EnvInt("BENCH_N", 7))
	assert.Equal(t, 7, EnvInt("BENCH_MISSING", 7))
}

func TestCheckPanicsOnError(t *testing.T) {
	assert.NotPanics(t, func() { Check(nil) })
	assert.Panics(t, func() { Check(errors.New("migrate failed")) })
}
