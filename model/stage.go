package model

// ProcessingStage is the upload screen's phase in the upload-then-analyze
// lifecycle. File input is accepted only in StageIdle and StageError.
type ProcessingStage int

const (
	StageIdle ProcessingStage = iota
	StageUploading
	StageAnalyzing
	// StageSaving is reserved: the backend persists events during the
	// upload call, but no client transition targets this stage yet.
	StageSaving
	StageError
	StageComplete
)

func (s ProcessingStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageUploading:
		return "uploading"
	case StageAnalyzing:
		return "analyzing"
	case StageSaving:
		return "saving"
	case StageError:
		return "error"
	case StageComplete:
		return "complete"
	}
	return "unknown"
}
