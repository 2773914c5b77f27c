package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounterRegistrationAndIncrement(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)

	m.RegisterCounter("cart_adds_total", "Total number of cart lines added")
	m.IncCounter("cart_adds_total")
	m.IncCounter("cart_adds_total")
	m.AddCounter("cart_adds_total", 3)

	got := testutil.ToFloat64(m.counters["cart_adds_total"])
	if got != 5 {
		t.Errorf("counter value = %v, want 5", got)
	}
}

func TestIncCounterUnregisteredIsNoop(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)

	// Touching a metric that was never registered must not panic.
	m.IncCounter("never_registered_total")
	m.AddCounter("never_registered_total", 2)
	m.ObserveHistogram("never_registered_seconds", 0.5)
	m.SetGauge("never_registered", 1)
}

func TestHistogramRegistrationAndObserve(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)

	m.RegisterHistogram("checkout_duration_seconds", "Duration of checkout requests in seconds",
		[]float64{0.1, 0.5, 1})
	m.ObserveHistogram("checkout_duration_seconds", 0.3)
	m.ObserveHistogram("checkout_duration_seconds", 0.7)

	count := testutil.CollectAndCount(m.histograms["checkout_duration_seconds"])
	if count != 1 {
		t.Errorf("histogram metric families = %d, want 1", count)
	}
}

func TestGaugeOperations(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)

	m.RegisterGauge("active_sessions", "Number of live sessions")
	m.SetGauge("active_sessions", 4)
	m.IncGauge("active_sessions")
	m.DecGauge("active_sessions")
	m.AddGauge("active_sessions", 2)
	m.SubGauge("active_sessions", 1)

	got := testutil.ToFloat64(m.gauges["active_sessions"])
	if got != 5 {
		t.Errorf("gauge value = %v, want 5", got)
	}
}

func TestCounterVecLabels(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)

	m.RegisterCounterVec("requests_total", "Requests by route", []string{"route"})
	m.IncCounterVec("requests_total", "/menu")
	m.IncCounterVec("requests_total", "/menu")
	m.IncCounterVec("requests_total", "/cart")

	got := testutil.ToFloat64(m.counterVecs["requests_total"].WithLabelValues("/menu"))
	if got != 2 {
		t.Errorf("labeled counter value = %v, want 2", got)
	}
}

func TestGetRegistryGathers(t *testing.T) {
	m := NewMetrics("test_service").(*Metrics)
	m.RegisterCounter("orders_placed_total", "Total number of orders written to the ledger")
	m.IncCounter("orders_placed_total")

	families, err := m.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("Gather() returned %d families, want 1", len(families))
	}
	if families[0].GetName() != "orders_placed_total" {
		t.Errorf("family name = %s, want orders_placed_total", families[0].GetName())
	}
}
