package uploader

// Phase is the coarse stage of an ingestion as seen by the client.
type Phase string

const (
	PhaseUploading  Phase = "uploading"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseError      Phase = "error"
)

// ProgressState is emitted to the OnProgress callback after every change.
// Progress is a whole percentage. During processing it is synthetic: the
// provider reports no numeric progress, so the poller advances it slowly
// toward a cap to keep the UI moving.
type ProgressState struct {
	Phase      Phase
	Progress   int
	UploadID   string
	MuxAssetID string
	Err        error
}
