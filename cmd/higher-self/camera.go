package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jislas1039-svg/higher-self/internal/device"
)

// fileCamera stands in for a capture device: its one frame is an image file.
type fileCamera struct {
	path string
}

type fileStream string

func (s fileStream) ID() string { return string(s) }

func (c *fileCamera) Acquire(ctx context.Context, facing device.Facing) (device.VideoStream, error) {
	if _, err := os.Stat(c.path); err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrAcquisition, err)
	}
	return fileStream(c.path), nil
}

func (c *fileCamera) Release(stream device.VideoStream) {}

func (c *fileCamera) CaptureFrame(stream device.VideoStream) ([]byte, error) {
	return os.ReadFile(stream.ID())
}
