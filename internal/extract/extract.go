package extract

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

const stageName = "extract"

const defaultConfidenceFloor = 0.3

var wordRE = regexp.MustCompile(`[A-Za-z0-9']+`)

func tokenize(sentence string) []string {
	return wordRE.FindAllString(sentence, -1)
}

// Deps bundles the capability interfaces Extract depends on.
type Deps struct {
	Source   domain.LiteratureSource
	Drugs    Dictionary
	Events   Dictionary
	Progress domain.ProgressObserver
	Cancel   domain.CancellationToken
}

// Run scans every abstract's sentences for drug/event co-occurrences,
// scores each candidate's confidence and polarity, and drops mentions below
// the configured confidence floor. A nil or empty Source yields an empty
// result, never an error: missing literature is not a failure.
func Run(ctx context.Context, cfg domain.ExtractConfig, deps Deps, logger *logrus.Logger) ([]domain.RelationMention, error) {
	start := time.Now()
	if deps.Progress == nil {
		deps.Progress = domain.NoopProgressObserver{}
	}
	if deps.Cancel == nil {
		deps.Cancel = domain.ContextCancellationToken{Ctx: ctx}
	}

	floor := cfg.ConfidenceFloor
	if floor == 0 {
		floor = defaultConfidenceFloor
	}

	var mentions []domain.RelationMention
	var abstractCount int64

	if deps.Source != nil {
		err := deps.Source.IterAbstracts(ctx, func(a domain.Abstract) error {
			if deps.Cancel.Cancelled() {
				return domain.NewPipelineError(domain.ErrKindCancellation, stageName, "cancelled during extraction", nil)
			}
			mentions = append(mentions, extractAbstract(a, deps.Drugs, deps.Events, floor)...)
			abstractCount++
			if abstractCount%1000 == 0 {
				deps.Progress.OnProgress(stageName, abstractCount, abstractCount)
			}
			return nil
		})
		if err != nil {
			if pe, ok := err.(*domain.PipelineError); ok {
				return nil, pe
			}
			return nil, domain.NewPipelineError(domain.ErrKindResource, stageName, "literature source iteration failed", err)
		}
	}
	deps.Progress.OnProgress(stageName, abstractCount, abstractCount)

	logger.WithFields(logrus.Fields{
		"abstracts": abstractCount,
		"mentions":  len(mentions),
		"duration":  time.Since(start),
	}).Info("extract stage complete")

	return mentions, nil
}

func extractAbstract(a domain.Abstract, drugs, events Dictionary, floor float64) []domain.RelationMention {
	var out []domain.RelationMention
	for _, sentence := range SplitSentences(a.Text) {
		tokens := tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		spans := FindSpans(tokens, drugs, events)

		var drugSpans, eventSpans []Span
		for _, s := range spans {
			if s.Kind == SpanDrug {
				drugSpans = append(drugSpans, s)
			} else {
				eventSpans = append(eventSpans, s)
			}
		}
		if len(drugSpans) == 0 || len(eventSpans) == 0 {
			continue
		}

		sentenceID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(a.PMID+":"+sentence)).String()
		for _, ds := range drugSpans {
			for _, es := range eventSpans {
				confidence, polarity := Confidence(tokens, ds, es)
				if confidence < floor {
					continue
				}
				out = append(out, domain.RelationMention{
					SentenceID:   sentenceID,
					PMID:         a.PMID,
					DrugMention:  ds.Surface,
					EventMention: es.Surface,
					DrugID:       ds.CanonicalID,
					EventID:      es.CanonicalID,
					Confidence:   confidence,
					Polarity:     polarity,
					Year:         a.Year,
				})
			}
		}
	}
	return out
}
