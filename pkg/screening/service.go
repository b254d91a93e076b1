package screening

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mirai-health/screening/pkg/common/kafka"
	"github.com/mirai-health/screening/pkg/common/logger"
	"github.com/mirai-health/screening/pkg/common/models"
	"github.com/mirai-health/screening/pkg/screening/features"
	"github.com/mirai-health/screening/pkg/screening/interpret"
	"github.com/mirai-health/screening/pkg/screening/schema"
	"github.com/mirai-health/screening/pkg/storage"
)

const eventSource = "screening-service"

// Scorer is the stage-dispatching scoring capability the orchestrator needs;
// *classifier.Set satisfies it.
type Scorer interface {
	Score(stage int, vec features.Vector) (float64, error)
}

// Service composes selector, builder, scorer and interpreter into one
// prediction call. The repo, cache and producer are optional collaborators:
// their failures are logged, never surfaced, since they sit outside the
// prediction contract.
type Service struct {
	registry    *schema.Registry
	builder     *features.Builder
	scorer      Scorer
	interpreter *interpret.Interpreter
	repo        *Repository
	cache       *storage.ResultCache
	producer    *kafka.Producer
}

func NewService(
	registry *schema.Registry,
	scorer Scorer,
	interpreter *interpret.Interpreter,
	repo *Repository,
	cache *storage.ResultCache,
	producer *kafka.Producer,
) *Service {
	return &Service{
		registry:    registry,
		builder:     features.NewBuilder(registry),
		scorer:      scorer,
		interpreter: interpreter,
		repo:        repo,
		cache:       cache,
		producer:    producer,
	}
}

// Predict runs the full screening pipeline: validate baseline, select stage,
// build the stage vector, score, interpret. The response carries the
// probability as a percentage rounded to one decimal; the raw fraction stays
// in the core result.
func (s *Service) Predict(ctx context.Context, attrs models.PatientAttributes) (*models.ScreeningResponse, error) {
	start := time.Now()

	patient, err := features.Normalize(attrs)
	if err != nil {
		return nil, err
	}
	stage := features.SelectStage(attrs)

	cacheKey := ""
	if s.cache != nil {
		cacheKey = storage.CacheKey(patient)
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			logger.Log.WithField("stage", stage).Debug("screening result served from cache")
			return cached, nil
		}
	}

	vector, err := s.builder.Build(patient, stage)
	if err != nil {
		return nil, err
	}

	probability, err := s.scorer.Score(stage, vector)
	if err != nil {
		s.publish(ctx, "screening.failed", map[string]interface{}{
			"stage": stage,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("scoring stage %d: %w", stage, err)
	}

	assessment := s.interpreter.Interpret(probability)
	result := models.ScreeningResult{
		Stage:           stage,
		RiskProbability: probability,
		RiskCategory:    assessment.Category,
	}

	resp := &models.ScreeningResponse{
		Stage:           result.Stage,
		RiskProbability: toPercent(result.RiskProbability),
		RiskCategory:    result.RiskCategory,
		RiskTier:        assessment.Tier,
		Message:         assessment.Message,
	}

	latency := time.Since(start)
	s.record(ctx, patient, result, assessment, latency)
	if s.cache != nil {
		s.cache.Put(ctx, cacheKey, resp)
	}
	s.publish(ctx, "screening.completed", map[string]interface{}{
		"stage":         result.Stage,
		"risk_category": result.RiskCategory,
		"risk_tier":     assessment.Tier,
	})

	logger.Log.WithFields(map[string]interface{}{
		"stage":      result.Stage,
		"category":   result.RiskCategory,
		"tier":       assessment.Tier,
		"latency_ms": latency.Milliseconds(),
	}).Info("Screening completed")

	return resp, nil
}

// Stages describes the loaded feature schemas for metadata consumers.
func (s *Service) Stages() []StageInfo {
	infos := make([]StageInfo, 0, schema.StageMax)
	for _, stage := range s.registry.Stages() {
		names, err := s.registry.Features(stage)
		if err != nil {
			continue
		}
		infos = append(infos, StageInfo{Stage: stage, Features: names})
	}
	return infos
}

type StageInfo struct {
	Stage    int      `json:"stage"`
	Features []string `json:"features"`
}

func (s *Service) record(ctx context.Context, patient models.PatientAttributes, result models.ScreeningResult, assessment interpret.Assessment, latency time.Duration) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Record(ctx, patient, result, assessment.Tier, latency); err != nil {
		logger.Log.WithError(err).Error("failed to record screening log")
	}
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Error("failed to publish screening event")
	}
}

// toPercent renders a [0,1] fraction as a percentage with one decimal.
func toPercent(probability float64) float64 {
	return math.Round(probability*1000) / 10
}
