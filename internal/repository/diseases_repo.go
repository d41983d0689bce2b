package repository

import (
	"visioncheck/internal/domain"
)

// DiseasesRepo 疾病目录访问接口（目录为静态数据，无 ctx）
type DiseasesRepo interface {
	// Get 按名称查找；未找到时 ok=false
	Get(name string) (domain.DiseaseRecord, bool)
	// List 按选择权重顺序返回全部条目
	List() []domain.DiseaseRecord
	// PickByWeight 对累计权重表做一次游走，返回第一个累计权重 >= draw 的条目；
	// draw 超出合计（浮点漂移）时回落到 Fallback
	PickByWeight(draw float64) domain.DiseaseRecord
	// Fallback 兜底条目（"Normal"）
	Fallback() domain.DiseaseRecord
}

// MemoryDiseasesRepo 内存疾病目录：进程启动时加载，只读
type MemoryDiseasesRepo struct {
	ordered []domain.DiseaseRecord
	byName  map[string]domain.DiseaseRecord
}

// NewMemoryDiseasesRepo 加载内置目录（五个类别，权重合计 1.0）
func NewMemoryDiseasesRepo() *MemoryDiseasesRepo {
	repo := &MemoryDiseasesRepo{
		ordered: diseaseCatalog(),
		byName:  map[string]domain.DiseaseRecord{},
	}
	for _, rec := range repo.ordered {
		repo.byName[rec.Name] = rec
	}
	return repo
}

func (r *MemoryDiseasesRepo) Get(name string) (domain.DiseaseRecord, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

func (r *MemoryDiseasesRepo) List() []domain.DiseaseRecord {
	out := make([]domain.DiseaseRecord, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *MemoryDiseasesRepo) PickByWeight(draw float64) domain.DiseaseRecord {
	cumulative := 0.0
	for _, rec := range r.ordered {
		cumulative += rec.Weight
		if draw <= cumulative {
			return rec
		}
	}
	// 权重合计为 1.0，正常不会走到这里；浮点漂移时保持原有行为：静默回落
	return r.Fallback()
}

func (r *MemoryDiseasesRepo) Fallback() domain.DiseaseRecord {
	return r.byName["Normal"]
}

// diseaseCatalog 五个疾病类别（类别与 OCT2017/Retinal C8 训练集一致）
func diseaseCatalog() []domain.DiseaseRecord {
	return []domain.DiseaseRecord{
		{
			Name:        "Normal",
			Severity:    domain.SeverityNone,
			Description: "No signs of retinal disease detected in the fundus image.",
			Symptoms: []string{
				"No visible abnormalities",
				"Clear optic disc margins",
				"Healthy macular reflex",
			},
			Recommendations: []string{
				"Continue routine annual eye examinations",
				"Maintain a balanced diet rich in leafy greens",
				"Wear UV-protective sunglasses outdoors",
			},
			RiskFactors: []string{
				"Age over 60",
				"Family history of eye disease",
			},
			FollowUp: []string{
				"Next screening in 12 months",
			},
			Weight: 0.30,
		},
		{
			Name:        "Diabetic Retinopathy",
			Severity:    domain.SeverityHigh,
			Description: "Damage to retinal blood vessels caused by prolonged high blood sugar.",
			Symptoms: []string{
				"Microaneurysms in the retinal capillaries",
				"Dot and blot hemorrhages",
				"Hard exudates near the macula",
				"Blurred or fluctuating vision",
			},
			Recommendations: []string{
				"Consult an ophthalmologist within 2 weeks",
				"Keep blood glucose within target range",
				"Monitor blood pressure and cholesterol",
				"Avoid smoking",
			},
			RiskFactors: []string{
				"Long-standing diabetes",
				"Poor glycemic control",
				"Hypertension",
				"Pregnancy",
			},
			FollowUp: []string{
				"Dilated fundus examination within 1 month",
				"HbA1c test with primary care physician",
				"Repeat imaging in 3 months",
			},
			Weight: 0.25,
		},
		{
			Name:        "Glaucoma",
			Severity:    domain.SeverityProgressive,
			Description: "Progressive optic nerve damage, commonly associated with elevated intraocular pressure.",
			Symptoms: []string{
				"Increased cup-to-disc ratio",
				"Peripheral vision loss",
				"Optic nerve fiber layer thinning",
				"Halos around lights in later stages",
			},
			Recommendations: []string{
				"Schedule intraocular pressure measurement promptly",
				"Begin prescribed pressure-lowering drops if confirmed",
				"Avoid medications that raise eye pressure",
			},
			RiskFactors: []string{
				"Elevated intraocular pressure",
				"Age over 60",
				"Family history of glaucoma",
				"High myopia",
			},
			FollowUp: []string{
				"Visual field test within 2 weeks",
				"OCT of the optic nerve head",
				"Pressure check every 3 months",
			},
			Weight: 0.20,
		},
		{
			Name:        "Cataract",
			Severity:    domain.SeverityModerate,
			Description: "Clouding of the crystalline lens that scatters light entering the eye.",
			Symptoms: []string{
				"Lens opacity visible on imaging",
				"Cloudy or dim vision",
				"Increased glare sensitivity at night",
				"Fading color perception",
			},
			Recommendations: []string{
				"Consult an ophthalmologist about surgical options",
				"Update eyeglass prescription in the interim",
				"Use brighter lighting for reading",
			},
			RiskFactors: []string{
				"Advanced age",
				"Prolonged UV exposure",
				"Diabetes",
				"Long-term corticosteroid use",
			},
			FollowUp: []string{
				"Surgical evaluation within 3 months",
				"Visual acuity re-test in 6 months if deferring surgery",
			},
			Weight: 0.15,
		},
		{
			Name:        "Age-related Macular Degeneration",
			Severity:    domain.SeverityHigh,
			Description: "Deterioration of the macula leading to loss of central vision.",
			Symptoms: []string{
				"Drusen deposits beneath the retina",
				"Distorted central vision (metamorphopsia)",
				"Dark or empty areas in central vision",
				"Difficulty recognizing faces",
			},
			Recommendations: []string{
				"Urgent referral to a retinal specialist",
				"Begin AREDS2 supplement regimen if advised",
				"Monitor vision daily with an Amsler grid",
				"Stop smoking immediately",
			},
			RiskFactors: []string{
				"Age over 65",
				"Smoking",
				"Family history of macular degeneration",
				"Cardiovascular disease",
			},
			FollowUp: []string{
				"Retinal specialist appointment within 2 weeks",
				"Fluorescein angiography if wet AMD suspected",
				"Monthly Amsler grid self-checks",
			},
			Weight: 0.10,
		},
	}
}
