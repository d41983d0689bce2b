package domain

// ModelBreakdown 三个合成置信度分量（并无真实模型输出）
type ModelBreakdown struct {
	CNNScore         float64 `json:"cnnScore"`         // CNN 分支得分（70-92 均匀分布）
	TransformerScore float64 `json:"transformerScore"` // Transformer 分支得分（75-95 均匀分布）
	FusionBoost      float64 `json:"fusionBoost"`      // 融合加成（0-6 均匀分布）
}

// AnalysisResult 单次分析结果（仅请求生命周期内有效）
type AnalysisResult struct {
	AnalysisID      string         `json:"analysisId"` // UUID
	Disease         string         `json:"disease"`    // 目录中的疾病名称
	Confidence      float64        `json:"confidence"` // 最终置信度 [0, 95]
	Severity        string         `json:"severity"`
	Symptoms        []string       `json:"symptoms"`
	Recommendations []string       `json:"recommendations"`
	RiskFactors     []string       `json:"riskFactors"`
	FollowUp        []string       `json:"followUp"`
	Breakdown       ModelBreakdown `json:"modelBreakdown"`
}

// AnalysisRecord 分析历史记录（登录用户的每次成功分析）
type AnalysisRecord struct {
	RecordID     string  `json:"record_id"`     // UUID
	UserID       string  `json:"user_id"`       // 身份服务的用户 ID
	Disease      string  `json:"disease"`       // 疾病名称
	Confidence   float64 `json:"confidence"`    // 最终置信度
	ModelVersion string  `json:"model_version"` // 分析时的模型版本号
	CreatedAt    int64   `json:"created_at"`    // Unix 时间戳（秒）
}
