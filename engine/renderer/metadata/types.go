package metadata

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "unknown"
}

// StageSource is one fully assembled shader stage: the preprocessor define
// preamble followed by the source text fetched from the source provider.
type StageSource struct {
	Stage ShaderStage
	// Name of the originating resource, kept for diagnostics.
	Name   string
	Source string
}

// RenderBuffer is a handle to a backend-owned GPU buffer. The buffer's
// contents belong to whoever created it; binding a buffer to a program only
// records the association, it never copies or mutates the data.
type RenderBuffer struct {
	ID        uint32
	TotalSize uint64
}

// Texture is a handle to a backend texture object.
type Texture struct {
	ID     uint32
	Name   string
	Width  uint32
	Height uint32
}

// QueryTarget selects what a timer query measures.
type QueryTarget int

const (
	// QueryTimeElapsed measures GPU time spent between Begin and End.
	QueryTimeElapsed QueryTarget = iota
	// QueryTimestamp records a single point-in-time GPU timestamp.
	QueryTimestamp
)

func (t QueryTarget) String() string {
	switch t {
	case QueryTimeElapsed:
		return "time-elapsed"
	case QueryTimestamp:
		return "timestamp"
	}
	return "unknown"
}
