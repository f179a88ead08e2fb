//go:build (darwin || linux) && !noyuv

// Optional libyuv acceleration loaded at runtime via purego.

package camemu

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libyuvOnce    sync.Once
	libyuvHandle  uintptr
	libyuvInitErr error
	libyuvLoaded  bool
)

// libyuv function pointers
var (
	libyuvYUY2ToI422 func(srcYUY2 *byte, srcStride int32,
		dstY *byte, strideY int32,
		dstU *byte, strideU int32,
		dstV *byte, strideV int32,
		width, height int32) int32
)

func libyuvName() string {
	if runtime.GOOS == "darwin" {
		return "libyuv.dylib"
	}
	return "libyuv.so"
}

// findLibrary searches for a library in common locations
func findLibrary(libName string) string {
	searchPaths := []string{
		os.Getenv("CAMEMU_LIB_PATH"),
	}

	// Add relative paths
	if exe, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Dir(exe))
	}
	searchPaths = append(searchPaths,
		"build",
		"../build",
		"/usr/local/lib",
		"/usr/lib",
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/opt/homebrew/lib",
	)

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		candidate := filepath.Join(p, libName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

func initLibyuv() {
	libyuvOnce.Do(func() {
		libPath := findLibrary(libyuvName())
		if libPath == "" {
			libyuvInitErr = fmt.Errorf("%s not found", libyuvName())
			return
		}

		var err error
		libyuvHandle, err = purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libyuvInitErr = fmt.Errorf("failed to load %s: %w", libPath, err)
			return
		}

		if _, err := purego.Dlsym(libyuvHandle, "YUY2ToI422"); err != nil {
			libyuvInitErr = fmt.Errorf("%s has no YUY2ToI422: %w", libPath, err)
			return
		}
		purego.RegisterLibFunc(&libyuvYUY2ToI422, libyuvHandle, "YUY2ToI422")

		libyuvLoaded = true
	})
}

// IsLibyuvAvailable returns true if libyuv was found and loaded.
func IsLibyuvAvailable() bool {
	initLibyuv()
	return libyuvLoaded
}

// yuy2ToI422Native runs the deinterleave in libyuv when it is loaded.
// Callers have already validated all buffer sizes.
func yuy2ToI422Native(src []byte, srcStride int, dstY []byte, strideY int,
	dstU []byte, strideU int, dstV []byte, strideV int, width, height int) bool {
	if !IsLibyuvAvailable() || width < 2 || height < 1 || len(src) < srcStride*height {
		return false
	}
	ret := libyuvYUY2ToI422(
		&src[0], int32(srcStride),
		&dstY[0], int32(strideY),
		&dstU[0], int32(strideU),
		&dstV[0], int32(strideV),
		int32(width), int32(height),
	)
	runtime.KeepAlive(src)
	runtime.KeepAlive(dstY)
	runtime.KeepAlive(dstU)
	runtime.KeepAlive(dstV)
	return ret == 0
}
