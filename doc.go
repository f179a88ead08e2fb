// Package camemu emulates a fixed-function handheld camera for guest
// software: the open/start/read/stop/close call sequence, its frame-rate
// contract and its pixel formats, fed by a host webcam, a still image or a
// solid color.
//
// Key pieces include:
//   - System and Device: the guest-facing API for the front and back cameras
//   - Pacer: per-device frame timing with blocking and non-blocking reads
//   - Backend resolution with webcam -> image -> solid color fallback
//   - FrameStore: the current surface, guarded against concurrent refresh
//   - Format conversion into caller buffers, including YUY2 -> planar 4:2:2
//   - PreviewSender: optional RFC 4175 RTP export of delivered frames
//
// # Architecture
//
//	Config -> resolver -> FrameSource + VideoFrame -> FrameStore
//	Read: Pacer -> FrameStore (poll webcam) -> convertFrame -> ReadBuffer
//	                                        -> FrameTap (PreviewSender)
//
// Backend failures never reach the caller. A webcam that cannot be opened
// demotes the device to its image, an unreadable image demotes it to the
// solid color, and the demotion sticks until the configuration is changed.
//
// # Native Libraries
//
// Webcams are captured through V4L2 (go4vl) on Linux. When libyuv is found
// (CAMEMU_LIB_PATH or the usual library directories) it is loaded with purego
// and used for packed to planar 4:2:2 conversion.
//
// # Build Tags
//
// Optional tags disable features:
//   - nodevices: disable host webcam capture
//   - noyuv: never load libyuv
//
// # Logging
//
// Diagnostics go through pion/logging under the "camemu" scope, e.g.
// PION_LOG_DEBUG=camemu.
package camemu
