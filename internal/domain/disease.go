package domain

// Severity levels used by the disease catalog.
const (
	SeverityNone        = "None"
	SeverityModerate    = "Moderate"
	SeverityHigh        = "High"
	SeverityProgressive = "Progressive"
)

// DiseaseRecord 疾病目录条目（静态数据，进程启动时加载，只读）
type DiseaseRecord struct {
	Name            string   `json:"name"`            // 疾病名称（目录主键）
	Severity        string   `json:"severity"`        // None | Moderate | High | Progressive
	Description     string   `json:"description"`     // 一句话描述
	Symptoms        []string `json:"symptoms"`        // 有序症状列表
	Recommendations []string `json:"recommendations"` // 有序建议列表
	RiskFactors     []string `json:"riskFactors"`     // 风险因素
	FollowUp        []string `json:"followUp"`        // 随访动作
	Weight          float64  `json:"-"`               // 选择权重（全表合计 1.0）
}
