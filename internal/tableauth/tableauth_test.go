package tableauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

func TestNormalizeTableCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"t1", "T1"},
		{"  bar-2  ", "BAR-2"},
		{"table 12", "TABLE12"},
		{"№7!!", "7"},
		{"", ""},
		{"   ", ""},
		{strings.Repeat("A", 40), strings.Repeat("A", MaxTableCodeLen)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTableCode(tt.in), "input %q", tt.in)
	}
}

func TestClassify(t *testing.T) {
	auth := New("kitchen-secret")
	sig := auth.Sign("T1")

	t.Run("valid signature verifies", func(t *testing.T) {
		source, table := auth.Classify("T1", sig)
		require.Equal(t, models.SourceVerifiedTable, source)
		require.Equal(t, "T1", table)
	})

	t.Run("signature is computed over the normalized code", func(t *testing.T) {
		source, table := auth.Classify("  t1 ", sig)
		require.Equal(t, models.SourceVerifiedTable, source)
		require.Equal(t, "T1", table)
	})

	t.Run("uppercase signature hex still verifies", func(t *testing.T) {
		source, _ := auth.Classify("T1", strings.ToUpper(sig))
		require.Equal(t, models.SourceVerifiedTable, source)
	})

	t.Run("no table claim is a counter order", func(t *testing.T) {
		source, table := auth.Classify("", "whatever")
		require.Equal(t, models.SourceCounter, source)
		require.Empty(t, table)
	})

	t.Run("missing signature downgrades", func(t *testing.T) {
		source, _ := auth.Classify("T1", "")
		require.Equal(t, models.SourceCounter, source)
	})

	t.Run("signature for another table downgrades", func(t *testing.T) {
		source, _ := auth.Classify("T2", sig)
		require.Equal(t, models.SourceCounter, source)
	})

	t.Run("wrong length downgrades", func(t *testing.T) {
		source, _ := auth.Classify("T1", sig[:40])
		require.Equal(t, models.SourceCounter, source)
	})

	t.Run("non hex characters downgrade", func(t *testing.T) {
		bad := "zz" + sig[2:]
		source, _ := auth.Classify("T1", bad)
		require.Equal(t, models.SourceCounter, source)
	})

	t.Run("flipping any single character fails verification", func(t *testing.T) {
		for i := 0; i < len(sig); i++ {
			flipped := []byte(sig)
			if flipped[i] == 'a' {
				flipped[i] = 'b'
			} else {
				flipped[i] = 'a'
			}
			source, _ := auth.Classify("T1", string(flipped))
			require.Equal(t, models.SourceCounter, source, "position %d", i)
		}
	})
}

func TestClassifyWithoutSecret(t *testing.T) {
	auth := New("")

	source, table := auth.Classify("T3", "")
	assert.Equal(t, models.SourceVerifiedTable, source, "presence is trusted when no secret is configured")
	assert.Equal(t, "T3", table)

	source, _ = auth.Classify("", "")
	assert.Equal(t, models.SourceCounter, source)
}

func TestSignDeterministic(t *testing.T) {
	auth := New("kitchen-secret")
	require.Equal(t, auth.Sign("T1"), auth.Sign("t1"))
	require.NotEqual(t, auth.Sign("T1"), auth.Sign("T2"))
	require.NotEqual(t, auth.Sign("T1"), New("other-secret").Sign("T1"))
	require.Len(t, auth.Sign("T1"), 64)
}
