package parameter

import "time"

// Frame & Engine Timing
const (
	// FrameRate is the target render rate (frames per second)
	FrameRate = 30

	// ShutdownGrace is how long the controller waits for agents to reach Stopped
	ShutdownGrace = 5 * time.Second

	// NoticeDuration is how long a status bar notice stays visible
	NoticeDuration = 5 * time.Second

	// HeadlessReportInterval is the period of metric summaries in headless mode
	HeadlessReportInterval = 2 * time.Second
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)
