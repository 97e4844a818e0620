package rst_test

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/hapgraph/rstcore/genbench"
	"github.com/hapgraph/rstcore/rst"
)

// TestWrapWithConfigMatchesDirectWrapCall verifies WrapWithConfig is a
// thin, behavior-preserving wrapper over Wrap(..., cfg.MinResolution, ...).
func TestWrapWithConfigMatchesDirectWrapCall(t *testing.T) {
	g, err := genbench.LinearChain(4, 10, []string{"h1"})
	require.NoError(t, err)

	rt, st, meta, ids, err := rst.Build(g, logr.Discard())
	require.NoError(t, err)
	require.NoError(t, rst.FillLeafToRoot(rt, st, ids))

	cfg := rst.WrapConfig{MinResolution: 0.04}
	require.NoError(t, rst.WrapWithConfig(rt, st, meta, ids, cfg))
	require.Equal(t, 0.04, cfg.MinResolution)
	require.Greater(t, meta.TotalLength, uint64(0))

	rt2, st2, meta2, ids2, err := rst.Build(g, logr.Discard())
	require.NoError(t, err)
	require.NoError(t, rst.FillLeafToRoot(rt2, st2, ids2))
	require.NoError(t, rst.Wrap(rt2, st2, meta2, cfg.MinResolution, ids2))
	require.Equal(t, *meta2, *meta)
}
