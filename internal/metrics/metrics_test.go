package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CatalogFetches.WithLabelValues("success").Inc()
	m.TelegramSends.WithLabelValues("error").Add(2)
	m.CatalogEntries.Set(12)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogFetches.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TelegramSends.WithLabelValues("error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.CatalogEntries))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "gowaffles_catalog_fetches_total")
	assert.Contains(t, names, "gowaffles_catalog_entries")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
