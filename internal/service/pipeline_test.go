package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"doccollect/internal/model"
)

func TestRefreshPipeline(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Second)
	future := now.Add(time.Minute)

	tests := []struct {
		name    string
		doc     model.Document
		changed bool
		want    model.PipelineStatus
	}{
		{
			name:    "clean verdict and elapsed delay advances",
			doc:     model.Document{PipelineStatus: model.PipelineProcessing, VirusStatus: model.VirusClean, ReadyAt: &past},
			changed: true,
			want:    model.PipelineClean,
		},
		{
			name:    "verdict still pending stays processing",
			doc:     model.Document{PipelineStatus: model.PipelineProcessing, VirusStatus: model.VirusPending, ReadyAt: &past},
			changed: false,
			want:    model.PipelineProcessing,
		},
		{
			name:    "delay not yet elapsed stays processing",
			doc:     model.Document{PipelineStatus: model.PipelineProcessing, VirusStatus: model.VirusClean, ReadyAt: &future},
			changed: false,
			want:    model.PipelineProcessing,
		},
		{
			name:    "no ready_at stays processing",
			doc:     model.Document{PipelineStatus: model.PipelineProcessing, VirusStatus: model.VirusClean},
			changed: false,
			want:    model.PipelineProcessing,
		},
		{
			name:    "terminal states never move",
			doc:     model.Document{PipelineStatus: model.PipelineQuarantined, VirusStatus: model.VirusClean, ReadyAt: &past},
			changed: false,
			want:    model.PipelineQuarantined,
		},
		{
			name:    "clean is already terminal",
			doc:     model.Document{PipelineStatus: model.PipelineClean, VirusStatus: model.VirusClean, ReadyAt: &past},
			changed: false,
			want:    model.PipelineClean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.doc
			assert.Equal(t, tt.changed, refreshPipeline(&d, now))
			assert.Equal(t, tt.want, d.PipelineStatus)
		})
	}
}

func TestFindDuplicate(t *testing.T) {
	existing := []model.Document{
		{ID: "a", Filename: "invoice.pdf", ByteSize: 100, PipelineStatus: model.PipelineClean},
		{ID: "b", Filename: "receipt.png", ByteSize: 50, PipelineStatus: model.PipelineProcessing},
		{ID: "c", Filename: "invoice.pdf", ByteSize: 100, PipelineStatus: model.PipelineDuplicate},
	}

	t.Run("exact filename and size match", func(t *testing.T) {
		dup := findDuplicate(existing, "invoice.pdf", 100)
		if assert.NotNil(t, dup) {
			assert.Equal(t, "a", dup.ID)
		}
	})

	t.Run("same name different size is not a duplicate", func(t *testing.T) {
		assert.Nil(t, findDuplicate(existing, "invoice.pdf", 101))
	})

	t.Run("existing duplicates are skipped as anchors", func(t *testing.T) {
		dup := findDuplicate(existing[2:], "invoice.pdf", 100)
		assert.Nil(t, dup)
	})

	t.Run("empty period", func(t *testing.T) {
		assert.Nil(t, findDuplicate(nil, "invoice.pdf", 100))
	})
}
