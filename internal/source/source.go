// Package source implements the Sample Source component: it turns either a
// live RTL-SDR device or a capture file into a stream of raw IQ byte frames,
// grounded on original_source/tuner.py's Tuner thread (device branch and
// file branch of __init__/run/_sdr_cb).
package source

import "context"

// FrameSize is the number of interleaved I,Q bytes delivered per callback,
// matching the teacher's 16x1024x16 RTL-SDR buffer convention.
const FrameSize = 16 * 1024 * 16

// Source is the common interface both the device and file Sample Sources
// implement: start delivering IQ frames to frameChan until ctx is cancelled
// or the source is exhausted. overflow is invoked once if frameChan is full
// when a frame arrives; per spec.md section 4.1/section 5, queue overflow on
// the producer side is fatal and the caller is expected to cancel the shared
// context from it.
type Source interface {
	Run(ctx context.Context, frameChan chan<- []byte, overflow func()) error
	Close() error
}
