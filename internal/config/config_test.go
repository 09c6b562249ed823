package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPairs    map[string]string
		wantWarnings int
	}{
		{
			name:      "simple pairs",
			input:     "a = 1\nb=2\n",
			wantPairs: map[string]string{"a": "1", "b": "2"},
		},
		{
			name:      "comments and blanks",
			input:     "# header\n\na = 1  # trailing\n   \n",
			wantPairs: map[string]string{"a": "1"},
		},
		{
			name:         "line with no equals",
			input:        "a = 1\njust some text\n",
			wantPairs:    map[string]string{"a": "1"},
			wantWarnings: 1,
		},
		{
			name:         "empty key or value",
			input:        "= 1\nkey =\nok = yes\n",
			wantPairs:    map[string]string{"ok": "yes"},
			wantWarnings: 2,
		},
		{
			name:      "value containing equals",
			input:     "cond = a=b\n",
			wantPairs: map[string]string{"cond": "a=b"},
		},
		{
			name:         "comment-only remainder is blank",
			input:        "# only a comment\nkey # no value at all\n",
			wantPairs:    map[string]string{},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, warnings, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPairs, pairs)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestGetWithDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		KeyMaxChainLength: "5",
		"note":            "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", cfg.Get("note", "fallback"))
	assert.Equal(t, "fallback", cfg.Get("missing", "fallback"))
	assert.Equal(t, int64(5), cfg.Int64(KeyMaxChainLength, DefaultMaxChainLength))
	assert.Equal(t, int64(DefaultMaxRowsPerShard), cfg.Int64(KeyMaxRowsPerShard, DefaultMaxRowsPerShard))
	assert.Equal(t, DefaultMaxSkewRatio, cfg.Float64(KeyMaxSkewRatio, DefaultMaxSkewRatio))
}

func TestTypedAccessorsRejectGarbage(t *testing.T) {
	cfg, err := FromMap(map[string]string{"n": "not-a-number"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Int64("n", 7))
	assert.Equal(t, 1.5, cfg.Float64("n", 1.5))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SCHEMALINT_MAX_CHAIN_LENGTH", "9")
	cfg, err := FromMap(map[string]string{KeyMaxChainLength: "5"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Int64(KeyMaxChainLength, DefaultMaxChainLength))
}

func TestLoadFlags(t *testing.T) {
	cfg, err := FromMap(map[string]string{KeyMaxChainLength: "5"})
	require.NoError(t, err)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-chain-length", DefaultMaxChainLength, "")
	flags.Int("min-rows-per-shard", 0, "")
	require.NoError(t, flags.Parse([]string{"--max-chain-length=7"}))

	require.NoError(t, cfg.LoadFlags(flags))
	assert.Equal(t, int64(7), cfg.Int64(KeyMaxChainLength, DefaultMaxChainLength))
	// Unset flags must not clobber defaults.
	assert.Equal(t, int64(DefaultMinRowsPerShard), cfg.Int64(KeyMinRowsPerShard, DefaultMinRowsPerShard))
}

func TestWriteRoundTrip(t *testing.T) {
	original, err := FromMap(map[string]string{
		"alpha":           "one",
		"beta":            "two words here",
		KeyMaxRowsPerShard: "50000000",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, original.Write(&buf))

	pairs, warnings, err := Parse(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	reread, err := FromMap(pairs)
	require.NoError(t, err)

	assert.True(t, original.Equal(reread))
}

func TestEqual(t *testing.T) {
	a, err := FromMap(map[string]string{"x": "1"})
	require.NoError(t, err)
	b, err := FromMap(map[string]string{"x": "1"})
	require.NoError(t, err)
	c, err := FromMap(map[string]string{"x": "2"})
	require.NoError(t, err)
	d, err := FromMap(map[string]string{"x": "1", "y": "2"})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))
}
