package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"visioncheck/internal/domain"
	"visioncheck/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrMissingImage 请求缺少 image 字段
	ErrMissingImage = errors.New("image payload is required")
	// ErrInvalidImage image 不是 data-URL 图片
	ErrInvalidImage = errors.New("image payload must be an image data URL")
)

// imageDataMarker 合法图片载荷的前缀
const imageDataMarker = "data:image/"

// 置信度合成参数（见 AnalyzeRequest 说明：纯随机，与图片内容无关）
const (
	cnnScoreMin           = 70.0
	cnnScoreRange         = 22.0 // 70-92
	transformerScoreMin   = 75.0
	transformerScoreRange = 20.0 // 75-95
	fusionBoostRange      = 6.0
	confidenceCap         = 95.0
)

// AnalyzeRequest 模拟分析请求
// 选择与置信度均为随机生成——"多阶段深度学习融合"只是一次加权随机查表
type AnalyzeRequest struct {
	Image    string         // data-URL 图片载荷（必填）
	Metadata map[string]any // 前端附带的元数据（不参与分析）
	UserID   string         // 登录用户 ID；为空时不记历史
}

// AnalysisService 模拟分析服务
type AnalysisService struct {
	diseases     repository.DiseasesRepo
	analyses     repository.AnalysesRepo
	delay        time.Duration
	modelVersion string
	logger       *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAnalysisService(diseases repository.DiseasesRepo, analyses repository.AnalysesRepo, delay time.Duration, modelVersion string, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		diseases:     diseases,
		analyses:     analyses,
		delay:        delay,
		modelVersion: modelVersion,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRandSource 注入随机源（单测用）
func (s *AnalysisService) SetRandSource(src rand.Source) {
	s.mu.Lock()
	s.rng = rand.New(src)
	s.mu.Unlock()
}

// ModelVersion 响应中声明的模型版本
func (s *AnalysisService) ModelVersion() string { return s.modelVersion }

// Categories 当前目录的类别名称（能力描述接口用）
func (s *AnalysisService) Categories() []string {
	records := s.diseases.List()
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names
}

// Analyze 执行一次模拟分析
// 流程：校验载荷 → 模拟推理等待 → 加权随机选择 → 合成置信度 → （可选）记历史
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*domain.AnalysisResult, error) {
	if req.Image == "" {
		return nil, ErrMissingImage
	}
	if !strings.HasPrefix(req.Image, imageDataMarker) {
		return nil, ErrInvalidImage
	}

	// 模拟推理耗时；请求取消时立即返回
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	draw := s.rng.Float64()
	cnnScore := cnnScoreMin + s.rng.Float64()*cnnScoreRange
	transformerScore := transformerScoreMin + s.rng.Float64()*transformerScoreRange
	fusionBoost := s.rng.Float64() * fusionBoostRange
	s.mu.Unlock()

	record := s.diseases.PickByWeight(draw)

	confidence := (cnnScore+transformerScore)/2 + fusionBoost
	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	result := &domain.AnalysisResult{
		AnalysisID:      uuid.NewString(),
		Disease:         record.Name,
		Confidence:      round1(confidence),
		Severity:        record.Severity,
		Symptoms:        record.Symptoms,
		Recommendations: record.Recommendations,
		RiskFactors:     record.RiskFactors,
		FollowUp:        record.FollowUp,
		Breakdown: domain.ModelBreakdown{
			CNNScore:         round1(cnnScore),
			TransformerScore: round1(transformerScore),
			FusionBoost:      round1(fusionBoost),
		},
	}

	s.logger.Info("Analysis completed",
		zap.String("analysis_id", result.AnalysisID),
		zap.String("disease", result.Disease),
		zap.Float64("confidence", result.Confidence),
	)

	// 历史记录尽力而为：失败不影响本次结果
	if req.UserID != "" && s.analyses != nil {
		rec := &domain.AnalysisRecord{
			RecordID:     result.AnalysisID,
			UserID:       req.UserID,
			Disease:      result.Disease,
			Confidence:   result.Confidence,
			ModelVersion: s.modelVersion,
			CreatedAt:    time.Now().Unix(),
		}
		if err := s.analyses.Insert(ctx, rec); err != nil {
			s.logger.Warn("Failed to record analysis history",
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
