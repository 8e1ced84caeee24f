package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"efwetl/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL returns error", jobName: "efw", wantErr: true},
		{name: "empty job name uses default", gatewayURL: "http://pushgateway:9091", wantJobName: "efwetl"},
		{name: "explicit job name is preserved", jobName: "efw_2024", gatewayURL: "http://pushgateway:9091", wantJobName: "efw_2024"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, "", tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend() = %v, %v; want nil, error", b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestIncCounterRoutesByName(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("efw", "", "http://example.com")
	if err != nil {
		t.Fatal(err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "reshape", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 7, metrics.Labels{"kind": "records_emitted"})
	b.IncCounter(metrics.RowsLoadedTotal, 2, metrics.Labels{"table": "efw_fact"})
	b.IncCounter(metrics.RowsLoadedTotal, 0.5, metrics.Labels{"table": "efw_fact"})
	b.IncCounter("unknown_metric", 10, nil)

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("reshape", "success")); got != 1 {
		t.Errorf("step counter = %v, want 1", got)
	}
	if got := readCounterValue(t, b.recordCounter.WithLabelValues("records_emitted")); got != 7 {
		t.Errorf("record counter = %v, want 7", got)
	}
	if got := readCounterValue(t, b.loadedCounter.WithLabelValues("efw_fact")); got != 2.5 {
		t.Errorf("loaded counter = %v, want 2.5", got)
	}
}

func TestZeroBackendIsSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.RecordsTotal, 1, metrics.Labels{})
	b.IncCounter(metrics.RowsLoadedTotal, 1, metrics.Labels{})
	b.ObserveHistogram(metrics.StepDuration, 1, metrics.Labels{})
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("efw", "", "http://example.com")
	if err != nil {
		t.Fatal(err)
	}
	b.ObserveHistogram(metrics.StepDuration, 1.5, metrics.Labels{"step": "load", "status": "success"})
	b.ObserveHistogram("other", 2, metrics.Labels{"step": "load", "status": "success"})

	m := &dto.Metric{}
	if err := b.stepDuration.WithLabelValues("load", "success").(prometheus.Metric).Write(m); err != nil {
		t.Fatal(err)
	}
	if m.GetSummary().GetSampleCount() != 1 || m.GetSummary().GetSampleSum() != 1.5 {
		t.Fatalf("summary = %v", m.GetSummary())
	}
}

// TestFlush verifies that Flush pushes the registry to the job and run
// grouping path of the Pushgateway.
func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method, path string
		body         int
	}
	reqCh := make(chan pushed, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{r.Method, r.URL.Path, len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("efw", "run-42", server.URL)
	if err != nil {
		t.Fatal(err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "read", "status": "success"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushed
	select {
	case got = <-reqCh:
	default:
		t.Fatal("Flush() did not reach the Pushgateway")
	}
	if got.method != http.MethodPut {
		t.Errorf("method = %s, want PUT", got.method)
	}
	if !strings.Contains(got.path, "/job/efw") || !strings.Contains(got.path, "/run/run-42") {
		t.Errorf("path = %q, want job and run grouping", got.path)
	}
	if got.body == 0 {
		t.Error("push body is empty")
	}
}

func TestFlush_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend("efw", "", server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(); err == nil || !strings.Contains(err.Error(), "prompush: push") {
		t.Fatalf("Flush() error = %v, want push error", err)
	}
}
