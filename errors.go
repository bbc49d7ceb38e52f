package vulkanctx

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// ErrOutOfDate reports that the swapchain no longer matches the presentation
// surface. The caller is expected to recreate the swapchain and everything
// derived from it; retrying the failed call against the stale swapchain is
// not valid.
var ErrOutOfDate = errors.New("vulkan: swapchain out of date")

func NewError(ret vk.Result) error {
	if ret != vk.Success {
		return fmt.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
	}
	return nil
}

// newPresentError maps swapchain acquire/present results onto the error
// taxonomy: out-of-date and suboptimal both demand recreation, everything
// else non-success is fatal.
func newPresentError(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return ErrOutOfDate
	default:
		return NewError(ret)
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}
