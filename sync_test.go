package vulkanctx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend is an in-memory FrameBackend. Gates are modelled explicitly:
// a slot is outstanding from Submit until the next WaitFrame on it, unless
// instant is set, in which case submitted work retires immediately (an
// infinitely fast GPU). Submitting a slot that is still outstanding, or
// rendering into an image another slot is still rendering into, fails the
// call, so protocol violations surface as errors from Advance.
type stubBackend struct {
	images  int
	instant bool

	// acquireOrder scripts the image indices Acquire hands out; once
	// exhausted acquisition continues round-robin.
	acquireOrder []int
	acquireCalls int

	outstanding []bool      // per slot
	slotImage   []int       // image the slot's outstanding work targets
	imageBusy   []bool      // per image: some slot is rendering into it
	waits       []int       // every WaitFrame call
	blockedWaits []int      // WaitFrame calls that found the gate unsignaled
	resets      []int
	submits     [][2]int // {slot, image}
	presents    [][2]int

	destroyed            bool
	outstandingAtDestroy int

	acquireErr error
	submitErr  error
	presentErr error
}

func newStubBackend(frames, images int) *stubBackend {
	b := &stubBackend{
		images:      images,
		outstanding: make([]bool, frames),
		slotImage:   make([]int, frames),
		imageBusy:   make([]bool, images),
	}
	for i := range b.slotImage {
		b.slotImage[i] = -1
	}
	return b
}

func (b *stubBackend) retire(slot int) {
	if b.outstanding[slot] {
		b.outstanding[slot] = false
		b.imageBusy[b.slotImage[slot]] = false
		b.slotImage[slot] = -1
	}
}

func (b *stubBackend) WaitFrame(slot int) error {
	b.waits = append(b.waits, slot)
	if b.outstanding[slot] {
		b.blockedWaits = append(b.blockedWaits, slot)
	}
	b.retire(slot)
	return nil
}

func (b *stubBackend) ResetFrame(slot int) error {
	b.resets = append(b.resets, slot)
	if b.outstanding[slot] {
		return fmt.Errorf("stub: reset of slot %d while its work is outstanding", slot)
	}
	return nil
}

func (b *stubBackend) Acquire(slot int) (int, error) {
	if b.acquireErr != nil {
		return 0, b.acquireErr
	}
	var image int
	if b.acquireCalls < len(b.acquireOrder) {
		image = b.acquireOrder[b.acquireCalls]
	} else {
		image = b.acquireCalls % b.images
	}
	b.acquireCalls++
	return image, nil
}

func (b *stubBackend) Submit(slot int, image int) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	if b.outstanding[slot] {
		return fmt.Errorf("stub: slot %d submitted while previous work is outstanding", slot)
	}
	if b.imageBusy[image] {
		return fmt.Errorf("stub: image %d submitted to while another slot renders into it", image)
	}
	b.submits = append(b.submits, [2]int{slot, image})
	b.outstanding[slot] = true
	b.slotImage[slot] = image
	b.imageBusy[image] = true
	if b.instant {
		b.retire(slot)
	}
	return nil
}

func (b *stubBackend) Present(slot int, image int) error {
	b.presents = append(b.presents, [2]int{slot, image})
	return b.presentErr
}

func (b *stubBackend) Destroy() {
	b.destroyed = true
	for _, busy := range b.outstanding {
		if busy {
			b.outstandingAtDestroy++
		}
	}
}

func TestNewFrameSyncValidates(t *testing.T) {
	_, err := NewFrameSync(newStubBackend(1, 1), 0, 1)
	assert.Error(t, err)

	_, err = NewFrameSync(newStubBackend(1, 1), 1, 0)
	assert.Error(t, err)

	s, err := NewFrameSync(newStubBackend(2, 3), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Frames())
	assert.Equal(t, 0, s.Cursor())
}

// Five cycles with two slots over three images on an infinitely fast GPU:
// the cursor walks 0,1,0,1,0 and no wait ever finds an unsignaled gate.
func TestAdvanceCursorSequence(t *testing.T) {
	backend := newStubBackend(2, 3)
	backend.instant = true
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	var cursors []int
	for i := 0; i < 5; i++ {
		cursors = append(cursors, s.Cursor())
		require.NoError(t, s.Advance())
	}

	assert.Equal(t, []int{0, 1, 0, 1, 0}, cursors)
	assert.Empty(t, backend.blockedWaits)
	assert.Equal(t, [][2]int{{0, 0}, {1, 1}, {0, 2}, {1, 0}, {0, 1}}, backend.submits)
	assert.Equal(t, backend.submits, backend.presents)
}

// The cursor sequence only depends on the slot count, not on how many
// swapchain images exist.
func TestCursorIndependentOfImageCount(t *testing.T) {
	for _, images := range []int{3, 4, 7} {
		backend := newStubBackend(3, images)
		backend.instant = true
		s, err := NewFrameSync(backend, 3, images)
		require.NoError(t, err)

		var cursors []int
		for i := 0; i < 7; i++ {
			cursors = append(cursors, s.Cursor())
			require.NoError(t, s.Advance())
		}
		assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, cursors, "images=%d", images)
	}
}

// With a single slot every cycle must wait out the previous submission
// before submitting again; the stub fails Submit if it does not.
func TestSingleSlotLockStep(t *testing.T) {
	backend := newStubBackend(1, 2)
	s, err := NewFrameSync(backend, 1, 2)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Advance())
	}
	// One throttle wait per cycle and nothing else.
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, backend.waits)
	// Cycles after the first find the previous cycle's work outstanding.
	assert.Equal(t, []int{0, 0, 0, 0, 0}, backend.blockedWaits)
}

// Ownership and image reuse across slot/image count combinations. The stub
// fails the run if any image is ever rendered into by two slots at once.
func TestNoConcurrentImageUse(t *testing.T) {
	combos := []struct{ frames, images int }{
		{1, 1}, {1, 3}, {2, 2}, {2, 3}, {2, 4}, {3, 5},
	}
	for _, combo := range combos {
		backend := newStubBackend(combo.frames, combo.images)
		s, err := NewFrameSync(backend, combo.frames, combo.images)
		require.NoError(t, err)

		for i := 0; i < 4*combo.images; i++ {
			require.NoError(t, s.Advance(), "frames=%d images=%d cycle=%d",
				combo.frames, combo.images, i)
		}
		for image, owner := range s.imageOwner {
			if owner != unowned {
				assert.Less(t, owner, combo.frames, "image %d owner out of range", image)
			}
		}
	}
}

// Acquisition hands out image 0 twice in a row while the first acquirer is
// still in flight on it: the hazard check must block on the owning slot
// before the second slot may render into the image.
func TestImageReuseBlocksOnOwner(t *testing.T) {
	backend := newStubBackend(2, 3)
	backend.acquireOrder = []int{0, 0}
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	require.NoError(t, s.Advance())
	assert.Equal(t, 0, s.imageOwner[0])

	require.NoError(t, s.Advance())
	// The second cycle's waits: slot 1's own throttle, then the blocked
	// wait on slot 0 which still owned image 0.
	assert.Equal(t, []int{0, 1, 0}, backend.waits)
	assert.Equal(t, []int{0}, backend.blockedWaits)
	assert.Equal(t, 1, s.imageOwner[0])
}

// A slot re-acquiring an image it already owns must not wait on itself.
func TestOwnImageNeedsNoHazardWait(t *testing.T) {
	backend := newStubBackend(1, 2)
	backend.acquireOrder = []int{0, 0, 0}
	s, err := NewFrameSync(backend, 1, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Advance())
	}
	// Only the per-cycle throttle waits, never a second wait per cycle.
	assert.Equal(t, []int{0, 0, 0}, backend.waits)
}

func TestAcquireOutOfDateLeavesStateUntouched(t *testing.T) {
	backend := newStubBackend(2, 3)
	backend.acquireErr = ErrOutOfDate
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	err = s.Advance()
	assert.ErrorIs(t, err, ErrOutOfDate)
	assert.Equal(t, 0, s.Cursor())
	assert.Empty(t, backend.submits)
	assert.Empty(t, backend.presents)
	assert.Empty(t, backend.resets)
}

// A failed present still advances the cursor: the submit went through, so
// the slot's gate is armed and must be cycled past.
func TestPresentFailureStillAdvancesCursor(t *testing.T) {
	backend := newStubBackend(2, 3)
	backend.presentErr = ErrOutOfDate
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	err = s.Advance()
	assert.ErrorIs(t, err, ErrOutOfDate)
	assert.Equal(t, 1, s.Cursor())
	assert.Len(t, backend.submits, 1)
}

func TestSubmitFailureIsFatal(t *testing.T) {
	backend := newStubBackend(2, 3)
	backend.submitErr = errors.New("device lost")
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	err = s.Advance()
	assert.EqualError(t, err, "device lost")
	assert.Empty(t, backend.presents)
}

// Destroy must drain every slot before releasing the primitives; no gate
// may still be outstanding when the backend is destroyed.
func TestDestroyDrainsAllSlots(t *testing.T) {
	backend := newStubBackend(2, 3)
	s, err := NewFrameSync(backend, 2, 3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Advance())
	}
	require.NoError(t, s.Destroy())

	assert.True(t, backend.destroyed)
	assert.Zero(t, backend.outstandingAtDestroy)
	// The final waits cover every slot.
	drainWaits := backend.waits[len(backend.waits)-2:]
	assert.ElementsMatch(t, []int{0, 1}, drainWaits)
}

func TestAcquiredIndexOutOfRange(t *testing.T) {
	backend := newStubBackend(1, 2)
	backend.acquireOrder = []int{5}
	s, err := NewFrameSync(backend, 1, 2)
	require.NoError(t, err)

	err = s.Advance()
	assert.Error(t, err)
	assert.Empty(t, backend.submits)
}
