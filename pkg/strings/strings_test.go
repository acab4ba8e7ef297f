package strings

import (
	"strings"
	"sync"
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Shares memory with b.
	b[0] = 'j'
	if s != "jello world" {
		t.Errorf("expected shared memory, got '%s'", s)
	}

	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
	if BytesToString(nil) != "" {
		t.Error("expected empty string for nil slice")
	}
}

func TestClone(t *testing.T) {
	b := []byte("mapped")
	s := Clone(BytesToString(b))
	b[0] = 'x'

	if s != "mapped" {
		t.Errorf("clone changed with its source: '%s'", s)
	}
	if Clone("") != "" {
		t.Error("expected empty clone")
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	builder.WriteBytes([]byte("world"))

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}
}

func TestBuilderReset(t *testing.T) {
	builder := NewBuilder(8)
	builder.WriteString("stale")
	builder.Reset()

	if builder.Len() != 0 {
		t.Errorf("expected empty builder after reset, got %d bytes", builder.Len())
	}

	n, err := builder.Write([]byte("fresh"))
	if err != nil || n != 5 {
		t.Errorf("unexpected write result %d, %v", n, err)
	}
	if builder.String() != "fresh" {
		t.Errorf("expected 'fresh', got '%s'", builder.String())
	}
}

func TestPool(t *testing.T) {
	b := GetBuilder()
	b.WriteString("pooled")
	PutBuilder(b)

	again := GetBuilder()
	defer PutBuilder(again)
	if again.Len() != 0 {
		t.Errorf("pooled builder not reset: %q", again.String())
	}

	// Oversized builders are dropped rather than pooled.
	big := NewBuilder(128 * 1024)
	PutBuilder(big)
	PutBuilder(nil)
}

func TestSprintf(t *testing.T) {
	tests := []struct {
		format string
		args   []interface{}
		want   string
	}{
		{"no args", nil, "no args"},
		{"%s=%d", []interface{}{"column", 3}, "column=3"},
		{"c%05d.bin", []interface{}{42}, "c00042.bin"},
		{"%v", []interface{}{strings.Repeat("x", 2000)}, strings.Repeat("x", 2000)},
	}

	for _, tt := range tests {
		if got := Sprintf(tt.format, tt.args...); got != tt.want {
			t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestSprintfConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				want := "worker " + string(rune('0'+i))
				if got := Sprintf("worker %d", i); got != want {
					t.Errorf("got %q, want %q", got, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func BenchmarkBytesToString(b *testing.B) {
	data := []byte("a string column value of moderate length")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BytesToString(data)
	}
}

func BenchmarkSprintf(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Sprintf("c%05d.bin", i)
	}
}
