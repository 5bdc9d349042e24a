package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalContext_Stop(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Stop()

	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by Stop")
	}
	assert.Nil(t, sc.Signal())
	sc.Stop() // idempotent
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := NewSignalContext(parent)
	defer sc.Stop()

	cancel()
	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
	assert.Nil(t, sc.Signal())
}
