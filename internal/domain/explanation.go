package domain

// Explanation "AI 解读"结果：按疾病模板插值生成的七段说明文本
type Explanation struct {
	Overview           string `json:"overview"`           // 总览（包含疾病名称与置信度）
	KeyFindings        string `json:"keyFindings"`        // 主要发现
	SeverityAssessment string `json:"severityAssessment"` // 严重程度评估
	SymptomAnalysis    string `json:"symptomAnalysis"`    // 症状分析
	Recommendations    string `json:"recommendations"`    // 建议
	FollowUp           string `json:"followUp"`           // 随访
	Disclaimer         string `json:"disclaimer"`         // 免责声明
}
