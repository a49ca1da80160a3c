package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric family %s not found", name)
	return 0
}

func TestRegisterIdempotent(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, Register(r))
	require.NoError(t, Register(r))
}

func TestCountersIncrement(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, Register(r))

	before, err := r.Gather()
	require.NoError(t, err)
	linesBefore := counterValue(t, before, "filetail_lines_total")
	bytesBefore := counterValue(t, before, "filetail_bytes_total")
	rotationsBefore := counterValue(t, before, "filetail_rotations_total")

	IncLines(3)
	AddBytes(128)
	IncRotations()
	IncFileNotFound()
	IncErrors()
	IncRestoredOffsets()

	// Zero and negative deltas are ignored.
	IncLines(0)
	AddBytes(-5)

	after, err := r.Gather()
	require.NoError(t, err)
	assert.Equal(t, linesBefore+3, counterValue(t, after, "filetail_lines_total"))
	assert.Equal(t, bytesBefore+128, counterValue(t, after, "filetail_bytes_total"))
	assert.Equal(t, rotationsBefore+1, counterValue(t, after, "filetail_rotations_total"))
}
