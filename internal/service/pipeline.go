package service

import (
	"time"

	"doccollect/internal/model"
)

// Pipeline status tracker helpers. Advancement to clean is signal-driven:
// the scan callback records the verdict and the status flips once both the
// verdict is clean and the processing delay (ready_at) has elapsed. Absence
// of a signal leaves the document at processing; stuck items are surfaced
// through the operator report, never auto-advanced.

// refreshPipeline advances a processing document to clean when its scan
// verdict is clean and ready_at has passed. Returns true if the document
// changed and needs persisting.
func refreshPipeline(d *model.Document, now time.Time) bool {
	if d.PipelineStatus != model.PipelineProcessing {
		return false
	}
	if d.VirusStatus != model.VirusClean {
		return false
	}
	if d.ReadyAt == nil || now.Before(*d.ReadyAt) {
		return false
	}
	d.PipelineStatus = model.PipelineClean
	return true
}

// findDuplicate applies the confirm-time duplicate rule: exact match on
// (filename, byteSize) against the period's existing non-duplicate documents.
// The scope is a single period; the same file in another period is not
// flagged. A content-hash key is a drop-in upgrade once sha256 is populated.
func findDuplicate(existing []model.Document, filename string, byteSize int64) *model.Document {
	for i := range existing {
		d := &existing[i]
		if d.PipelineStatus == model.PipelineDuplicate {
			continue
		}
		if d.Filename == filename && d.ByteSize == byteSize {
			return d
		}
	}
	return nil
}
