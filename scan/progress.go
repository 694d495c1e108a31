package scan

// ProgressEvent reports how far a pass has got.
type ProgressEvent struct {
	// Stage identifies the pass.
	Stage ProgressStage

	// FilesDone is the number of entries processed so far.
	FilesDone int

	// FilesTotal is the number of entries in the archive.
	FilesTotal int
}

// ProgressStage identifies a pass.
type ProgressStage uint8

const (
	// StageDependencies is the dependency forest pass.
	StageDependencies ProgressStage = iota

	// StageCollisions is the collision sweep.
	StageCollisions

	// StagePaths is the path search.
	StagePaths

	// StageGrep is the content search.
	StageGrep

	// StageMessages is the text table sweep.
	StageMessages
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageDependencies:
		return "dependencies"
	case StageCollisions:
		return "collisions"
	case StagePaths:
		return "paths"
	case StageGrep:
		return "grep"
	case StageMessages:
		return "messages"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates. Implementations must be safe for
// concurrent calls.
type ProgressFunc func(ProgressEvent)
