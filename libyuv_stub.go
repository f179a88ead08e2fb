//go:build (!darwin && !linux) || noyuv

package camemu

// IsLibyuvAvailable returns false when built without libyuv support.
func IsLibyuvAvailable() bool { return false }

func yuy2ToI422Native(src []byte, srcStride int, dstY []byte, strideY int,
	dstU []byte, strideU int, dstV []byte, strideV int, width, height int) bool {
	return false
}
