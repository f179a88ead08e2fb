//go:build !linux || !cgo || nodevices

package camemu

// No capture backend is built on this platform. Webcam configurations
// demote to the image backend unless a provider is registered with
// RegisterDeviceProvider or WithDeviceProvider.
