package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedEventIDGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedEventIDGenerator("test-event-123")

	assert.Equal(t, "test-event-123", gen.Generate())
	assert.Equal(t, "test-event-123", gen.Generate())
	assert.Equal(t, "test-event-123", gen.Generate())
}

func TestFixedEventIDGenerator_EmptyIDDefault(t *testing.T) {
	gen := NewFixedEventIDGenerator("")

	assert.Equal(t, "test-event-default", gen.Generate())
}

func TestFixedEventIDGenerator_CustomID(t *testing.T) {
	gen := NewFixedEventIDGenerator("01234567-89ab-cdef-0123-456789abcdef")

	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", gen.Generate())
}

func TestFixedEventIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedEventIDGenerator("thread-safe-id")

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				id := gen.Generate()
				assert.Equal(t, "thread-safe-id", id)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
