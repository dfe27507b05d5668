package sim

import (
	"time"

	"github.com/vmbx/vmbx/vmb"
)

func (s *System) PayloadSizeGet(handle vmb.Handle, payloadSize *uint32) vmb.Error {
	if payloadSize == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	*payloadSize = uint32(c.intVal("PayloadSize"))
	return vmb.ErrorSuccess
}

// streamDevice resolves a camera that may stream; read-only sessions may not.
func (s *System) streamDevice(handle vmb.Handle) (*camera, vmb.Error) {
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.access == vmb.AccessModeRead {
		return nil, vmb.ErrorInvalidAccess
	}
	return c, vmb.ErrorSuccess
}

func (s *System) FrameAnnounce(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	if frame == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if int64(len(frame.Buffer)) < c.intVal("PayloadSize") {
		return vmb.ErrorBadParameter
	}
	if _, ok := c.announced[frame]; ok {
		return vmb.ErrorAlready
	}
	c.announced[frame] = &frameSlot{}
	return vmb.ErrorSuccess
}

func (s *System) FrameRevoke(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.announced[frame]
	if !ok {
		return vmb.ErrorBadParameter
	}
	if slot.queued {
		return vmb.ErrorInUse
	}
	delete(c.announced, frame)
	delete(c.chunks, frame)
	return vmb.ErrorSuccess
}

// FrameRevokeAll flushes the queue and revokes every announced frame.
func (s *System) FrameRevokeAll(handle vmb.Handle) vmb.Error {
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	c.announced = make(map[*vmb.Frame]*frameSlot)
	c.chunks = make(map[*vmb.Frame]chunkValues)
	return vmb.ErrorSuccess
}

func (s *System) CaptureStart(handle vmb.Handle) vmb.Error {
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capturing {
		return vmb.ErrorInvalidCall
	}
	c.capturing = true
	return vmb.ErrorSuccess
}

// CaptureEnd stops frame delivery and waits for callbacks in flight. It must
// not be called from a frame callback.
func (s *System) CaptureEnd(handle vmb.Handle) vmb.Error {
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	c.capturing = false
	c.mu.Unlock()
	c.inflight.Wait()
	return vmb.ErrorSuccess
}

func (s *System) CaptureFrameQueue(handle vmb.Handle, frame *vmb.Frame, callback vmb.FrameCallback) vmb.Error {
	if frame == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.announced[frame]
	if !ok {
		return vmb.ErrorBadParameter
	}
	if !c.capturing || slot.queued {
		return vmb.ErrorInvalidCall
	}
	slot.queued = true
	slot.callback = callback
	slot.done = make(chan struct{})
	c.queue = append(c.queue, frame)
	return vmb.ErrorSuccess
}

// CaptureFrameWait blocks until frame is completed or flushed. timeout is
// in milliseconds.
func (s *System) CaptureFrameWait(handle vmb.Handle, frame *vmb.Frame, timeout uint32) vmb.Error {
	if frame == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	slot, ok := c.announced[frame]
	if !ok {
		c.mu.Unlock()
		return vmb.ErrorBadParameter
	}
	done := slot.done
	c.mu.Unlock()
	if done == nil {
		return vmb.ErrorInvalidCall
	}

	timer := time.NewTimer(time.Duration(timeout) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-done:
		return vmb.ErrorSuccess
	case <-timer.C:
		return vmb.ErrorTimeout
	}
}

func (s *System) CaptureQueueFlush(handle vmb.Handle) vmb.Error {
	c, err := s.streamDevice(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
	return vmb.ErrorSuccess
}

// ChunkDataAccess hands the chunk values of frame to callback through a
// temporary read-only feature container.
func (s *System) ChunkDataAccess(frame *vmb.Frame, chunkAccessCallback vmb.ChunkAccessCallback, userContext any) vmb.Error {
	if frame == nil || chunkAccessCallback == nil {
		return vmb.ErrorBadParameter
	}
	s.mu.Lock()
	if s.startups == 0 {
		s.mu.Unlock()
		return vmb.ErrorApiNotStarted
	}
	if !frame.ChunkDataPresent {
		s.mu.Unlock()
		return vmb.ErrorNoChunkData
	}
	var (
		values chunkValues
		found  bool
	)
	for _, c := range s.open {
		c.mu.Lock()
		values, found = c.chunks[frame]
		c.mu.Unlock()
		if found {
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return vmb.ErrorNoChunkData
	}
	h := s.nextChunk
	s.nextChunk++
	s.chunks[h] = chunkTree(values)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.chunks, h)
		s.mu.Unlock()
	}()
	return chunkAccessCallback(h, userContext)
}
