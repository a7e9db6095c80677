package embed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

const stageName = "embed"

// Run embeds every event's representative term and surface forms, then
// clusters near-duplicate events by cosine similarity. The same event_id
// always joins the same cluster given identical inputs and embedder.
func Run(ctx context.Context, cfg domain.EmbedConfig, events []domain.Event, embedder domain.Embedder, progress domain.ProgressObserver, cancel domain.CancellationToken, logger *logrus.Logger) ([]domain.EventCluster, error) {
	start := time.Now()
	if progress == nil {
		progress = domain.NoopProgressObserver{}
	}
	if cancel == nil {
		cancel = domain.ContextCancellationToken{Ctx: ctx}
	}

	eventIDs := make([]string, len(events))
	vectors := make([][]float64, len(events))
	for i, e := range events {
		if cancel.Cancelled() {
			return nil, domain.NewPipelineError(domain.ErrKindCancellation, stageName, "cancelled during embedding", nil)
		}
		text := e.RepresentativeTerm
		if len(e.SurfaceForms) > 0 {
			text = text + " " + strings.Join(e.SurfaceForms, " ")
		}
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, domain.NewPipelineError(domain.ErrKindResource, stageName, fmt.Sprintf("embedding event %s", e.ID), err)
		}
		eventIDs[i] = e.ID
		vectors[i] = vec
		if (i+1)%1000 == 0 {
			progress.OnProgress(stageName, int64(i+1), int64(len(events)))
		}
	}
	progress.OnProgress(stageName, int64(len(events)), int64(len(events)))

	raw := Cluster(eventIDs, vectors, cfg.ClusterThreshold, cfg.MinCohesion)

	out := make([]domain.EventCluster, len(raw))
	for i, r := range raw {
		out[i] = domain.EventCluster{
			ClusterID:             i,
			RepresentativeEventID: r.RepresentativeEventID,
			MemberEventIDs:        r.MemberEventIDs,
			Cohesion:              r.Cohesion,
		}
	}

	logger.WithFields(logrus.Fields{
		"events":   len(events),
		"clusters": len(out),
		"duration": time.Since(start),
	}).Info("embed stage complete")

	return out, nil
}
