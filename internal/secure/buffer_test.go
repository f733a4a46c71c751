package secure

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "password", data: []byte("my-secret-password")},
		{name: "empty", data: []byte{}},
		{name: "binary", data: []byte{0x00, 0xFF, 0x10, 0x20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			expected := bytes.Clone(tt.data)
			buf := NewBuffer(tt.data)
			defer buf.Destroy()

			if !bytes.Equal(tt.data, expected) {
				t.Fatalf("NewBuffer() modified the caller's slice: %v", tt.data)
			}
			if buf.Len() != len(expected) {
				t.Errorf("Len() = %d, want %d", buf.Len(), len(expected))
			}

			got, err := buf.Bytes()
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if !bytes.Equal(got, expected) {
				t.Errorf("Bytes() = %v, want %v", got, expected)
			}
		})
	}
}

func TestBuffer_BytesReturnsCopy(t *testing.T) {
	t.Parallel()

	buf := NewBuffer([]byte("s3cr3t"))
	defer buf.Destroy()

	first, err := buf.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	first[0] = 'X'

	second, err := buf.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if string(second) != "s3cr3t" {
		t.Errorf("mutating a copy changed the secret: %q", second)
	}
}

func TestBuffer_Clone(t *testing.T) {
	t.Parallel()

	buf := NewBuffer([]byte("original"))
	clone, err := buf.Clone()
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}

	buf.Destroy()

	got, err := clone.Bytes()
	if err != nil {
		t.Fatalf("clone.Bytes() after source destroy error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("clone.Bytes() = %q, want %q", got, "original")
	}
	clone.Destroy()
}

func TestBuffer_Equal(t *testing.T) {
	t.Parallel()

	buf := NewBuffer([]byte("abc"))
	defer buf.Destroy()

	if !buf.Equal([]byte("abc")) {
		t.Error("Equal() = false for identical secret")
	}
	if buf.Equal([]byte("abd")) {
		t.Error("Equal() = true for different secret")
	}
}

func TestBuffer_Destroy(t *testing.T) {
	t.Parallel()

	buf := NewBuffer([]byte("secret-to-destroy"))
	buf.Destroy()
	// idempotent
	buf.Destroy()

	if _, err := buf.Bytes(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Bytes() after Destroy error = %v, want ErrDestroyed", err)
	}
	if _, err := buf.Clone(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Clone() after Destroy error = %v, want ErrDestroyed", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() after Destroy = %d, want 0", buf.Len())
	}
}

func TestBuffer_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	buf := NewBuffer([]byte("concurrent-secret"))
	defer buf.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := buf.Bytes()
			if err != nil {
				t.Errorf("Bytes() error = %v", err)
				return
			}
			if string(got) != "concurrent-secret" {
				t.Errorf("Bytes() = %q", got)
			}
		}()
	}
	wg.Wait()
}
