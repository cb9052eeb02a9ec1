package core

import "sync"

const frameSampleCount uint8 = 30

// MetricsState accumulates rolling frame statistics. CPU frame times come
// from the engine clock, GPU times from timer queries when the backend
// supports them.
type MetricsState struct {
	frameCounter    uint8
	frameTimes      [frameSampleCount]float64
	frameAvg        float64
	frames          int32
	accumulatedMS   float64
	fps             float64
	gpuTimeMS       float64
	gpuSampleCounts uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

// MetricsUpdate records one frame's elapsed CPU time in seconds.
func MetricsUpdate(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	metricsState.frameTimes[metricsState.frameCounter] = frameMS
	if metricsState.frameCounter == frameSampleCount-1 {
		var sum float64
		for i := uint8(0); i < frameSampleCount; i++ {
			sum += metricsState.frameTimes[i]
		}
		metricsState.frameAvg = sum / float64(frameSampleCount)
	}
	metricsState.frameCounter++
	metricsState.frameCounter %= frameSampleCount

	metricsState.accumulatedMS += frameMS
	if metricsState.accumulatedMS > 1000 {
		metricsState.fps = float64(metricsState.frames)
		metricsState.accumulatedMS -= 1000
		metricsState.frames = 0
	}

	metricsState.frames++
}

// MetricsUpdateGPU records one frame's GPU elapsed time, in nanoseconds as
// reported by a timer query.
func MetricsUpdateGPU(elapsedNS uint64) {
	ms := float64(elapsedNS) / 1.0e6
	// Simple running average, weighted towards recent frames.
	if metricsState.gpuSampleCounts == 0 {
		metricsState.gpuTimeMS = ms
	} else {
		metricsState.gpuTimeMS = metricsState.gpuTimeMS*0.9 + ms*0.1
	}
	metricsState.gpuSampleCounts++
}

func MetricsFPS() float64 {
	return metricsState.fps
}

func MetricsFrameTime() float64 {
	return metricsState.frameAvg
}

func MetricsGPUTime() float64 {
	return metricsState.gpuTimeMS
}

func MetricsFrame() (float64, float64) {
	return metricsState.fps, metricsState.frameAvg
}
