package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveAndRejected(t *testing.T) {
	m := NewMetrics()

	m.Observe("author", "create", OutcomeOK, time.Now())
	m.Observe("author", "create", OutcomeOK, time.Now())
	m.Observe("author", "create", OutcomeInvalid, time.Now())
	m.Rejected("author", "name")

	if got := testutil.ToFloat64(m.ops.WithLabelValues("author", "create", OutcomeOK)); got != 2 {
		t.Fatalf("ok count = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.ops.WithLabelValues("author", "create", OutcomeInvalid)); got != 1 {
		t.Fatalf("invalid count = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("author", "name")); got != 1 {
		t.Fatalf("rejected count = %v; want 1", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	m.Observe("post", "get", OutcomeOK, time.Now())
	m.Rejected("post", "title")
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("nil WriteTextfile: %v", err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Observe("post", "delete", OutcomeNotFound, time.Now())

	path := filepath.Join(t.TempDir(), "blog.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	want := `blog_operations_total{entity="post",op="delete",outcome="not_found"} 1`
	if !strings.Contains(string(b), want) {
		t.Fatalf("textfile missing %q:\n%s", want, b)
	}

	// Empty path is a no-op.
	if err := m.WriteTextfile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
}
