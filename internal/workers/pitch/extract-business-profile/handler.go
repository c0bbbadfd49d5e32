// internal/workers/pitch/extract-business-profile/handler.go
package extractbusinessprofile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/common/metrics"
	"pitchcraft/internal/extract"
	"pitchcraft/internal/models"
)

const (
	TaskType = "extract-business-profile"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	redis  redis.Cmdable
	logger logger.Logger
}

// NewHandler builds the handler. redis may be nil, which disables caching.
func NewHandler(config *Config, redis redis.Cmdable, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INVALID_INPUT", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "profile:" + hex.EncodeToString(sum[:])
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(h.config.MaxTextLength); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := cacheKey(input.Text)
	if h.redis != nil {
		if val, err := h.redis.Get(ctx, key).Result(); err == nil {
			var profile models.BusinessProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &Output{Profile: &profile, Cached: true}, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			h.logger.Warn("profile cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	profile := extract.BuildProfile(input.Text)

	if h.redis != nil {
		h.cacheProfile(ctx, key, profile)
	}

	h.logger.Info("profile extracted", map[string]interface{}{
		"company":   profile.CompanyName,
		"personnel": len(profile.Personnel),
		"metrics":   len(profile.Metrics),
	})
	return &Output{Profile: profile}, nil
}

// cacheProfile stores profile under key. Failures are logged and skipped.
func (h *Handler) cacheProfile(ctx context.Context, key string, profile *models.BusinessProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		h.logger.Warn("profile cache encode failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("profile cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// failJob throws a BPMN error; every failure of this worker is an input
// problem that a retry cannot fix.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
