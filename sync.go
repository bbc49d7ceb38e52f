package vulkanctx

import (
	"errors"
	"fmt"
)

// FrameBackend drives the device side of the frame protocol. Slots and
// images are indices into the synchronizer's fixed tables; the backend owns
// the actual synchronization primitives behind them (two semaphores and one
// fence per slot).
//
// WaitFrame blocks until the slot's in-flight gate signals, i.e. until the
// GPU has retired everything previously submitted under that slot.
// Acquire requests the next swapchain image, arming the slot's
// image-available signal; the returned index is valid immediately even
// though the image itself may not be writable yet. Submit enqueues the
// pre-recorded commands for the image, waiting GPU-side on the slot's
// image-available signal and signalling render-finished plus the in-flight
// gate on completion. Present queues the image for display once
// render-finished fires. None of Acquire, Submit or Present block the CPU.
type FrameBackend interface {
	WaitFrame(slot int) error
	ResetFrame(slot int) error
	Acquire(slot int) (int, error)
	Submit(slot int, image int) error
	Present(slot int, image int) error
	Destroy()
}

const unowned = -1

// FrameSync cycles a fixed ring of frame slots over the swapchain,
// throttling the CPU to at most as many frames in flight as there are slots
// and guarding each swapchain image against concurrent reuse by two slots.
// It is the sole owner of the cursor and the per-image ownership table and
// must be driven from a single goroutine.
type FrameSync struct {
	backend FrameBackend
	frames  int
	cursor  int

	// imageOwner maps swapchain image index to the slot whose in-flight
	// gate currently covers it, or unowned.
	imageOwner []int
}

// NewFrameSync takes ownership of the backend. frames is the number of
// frame slots F, imageCount the number of swapchain images; the two are
// independent and imageCount may exceed frames.
func NewFrameSync(backend FrameBackend, frames, imageCount int) (*FrameSync, error) {
	if frames < 1 {
		return nil, fmt.Errorf("vulkan: frames in flight must be at least 1, got %d", frames)
	}
	if imageCount < 1 {
		return nil, fmt.Errorf("vulkan: swapchain image count must be at least 1, got %d", imageCount)
	}
	owners := make([]int, imageCount)
	for i := range owners {
		owners[i] = unowned
	}
	return &FrameSync{
		backend:    backend,
		frames:     frames,
		imageOwner: owners,
	}, nil
}

// Frames returns the frame slot count F.
func (s *FrameSync) Frames() int {
	return s.frames
}

// Cursor returns the slot the next Advance call will use.
func (s *FrameSync) Cursor() int {
	return s.cursor
}

// Advance runs one full frame cycle on the current slot: throttle on the
// slot's in-flight gate, acquire an image, resolve any cross-slot hazard on
// that image, then submit and present. The throttle and the hazard wait are
// the only points that block the CPU; submit and present ordering is
// expressed through the backend's GPU-side signals.
//
// The cursor advances after the submit+present cycle regardless of the
// present outcome. An ErrOutOfDate from acquire or present is returned for
// the caller to recreate the swapchain; any other failure is fatal and must
// not be retried against the same device state.
func (s *FrameSync) Advance() error {
	slot := s.cursor

	if err := s.backend.WaitFrame(slot); err != nil {
		return err
	}

	image, err := s.backend.Acquire(slot)
	if err != nil {
		return err
	}
	if image < 0 || image >= len(s.imageOwner) {
		return fmt.Errorf("vulkan: acquired image index %d out of range (%d images)", image, len(s.imageOwner))
	}

	// A previous frame on another slot may still be rendering into this
	// image when the swapchain holds more images than there are slots.
	if owner := s.imageOwner[image]; owner != unowned && owner != slot {
		if err := s.backend.WaitFrame(owner); err != nil {
			return err
		}
	}
	s.imageOwner[image] = slot

	if err := s.backend.ResetFrame(slot); err != nil {
		return err
	}
	if err := s.backend.Submit(slot, image); err != nil {
		return err
	}

	err = s.backend.Present(slot, image)
	s.cursor = (s.cursor + 1) % s.frames
	return err
}

// Drain blocks until every slot's in-flight gate has signalled. Unlike the
// per-slot throttle in Advance this covers all outstanding work, making it
// safe to release resources the GPU might still reference.
func (s *FrameSync) Drain() error {
	var errs []error
	for slot := 0; slot < s.frames; slot++ {
		if err := s.backend.WaitFrame(slot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Destroy drains all slots and releases the backend's primitives together
// with the ownership table. The synchronizer must not be used afterwards.
func (s *FrameSync) Destroy() error {
	err := s.Drain()
	s.backend.Destroy()
	s.imageOwner = nil
	return err
}
