package source

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCapture(t *testing.T, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "capture-*.bin")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestFileSourceDeliversWholeFile(t *testing.T) {
	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	path := writeTempCapture(t, payload)

	src, err := NewFileSource(path)
	require.NoError(t, err)

	frameChan := make(chan []byte, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = src.Run(ctx, frameChan, nil)
	require.NoError(t, err)

	select {
	case frame := <-frameChan:
		assert.Equal(t, payload, frame)
	default:
		t.Fatal("expected a delivered frame")
	}
}

func TestFileSourceTruncatesToFrameSize(t *testing.T) {
	payload := make([]byte, FrameSize+1000)
	path := writeTempCapture(t, payload)

	src, err := NewFileSource(path)
	require.NoError(t, err)

	assert.Len(t, src.data, FrameSize)
}

func TestFileSourceOverflowCallsCallback(t *testing.T) {
	path := writeTempCapture(t, []byte{1, 2, 3, 4})
	src, err := NewFileSource(path)
	require.NoError(t, err)

	frameChan := make(chan []byte) // unbuffered, always full for a non-blocking send
	called := false

	err = src.Run(context.Background(), frameChan, func() { called = true })
	require.NoError(t, err)
	assert.True(t, called)
}

func TestNewFileSourceRejectsMissingFile(t *testing.T) {
	_, err := NewFileSource("/nonexistent/path/does-not-exist.bin")
	assert.Error(t, err)
}
